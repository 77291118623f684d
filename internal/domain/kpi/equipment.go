package kpi

import (
	"github.com/samber/lo"

	"github.com/hxtubes/hxreport/internal/domain/models"
)

// Equipment computes the progress of tag as of asOf from its records dated up to and including asOf.
// Records of other tags and records with unknown dates are ignored.
func Equipment(tag string, recs []models.ProductionRecord, asOf models.Date) models.EquipmentKpiSnapshot {
	history := lo.Filter(recs, func(r models.ProductionRecord, _ int) bool {
		return r.EquipmentTag == tag && r.Date.Known() && !r.Date.After(asOf)
	})

	// Capacity repeats on every row and may be missing on some; the max is the real value.
	capacity := 0.0
	for _, r := range history {
		if r.TotalTubes > capacity {
			capacity = r.TotalTubes
		}
	}
	// No separate source for mapped scope yet.
	mapped := capacity
	executed := lo.SumBy(history, func(r models.ProductionRecord) float64 { return r.Quantity })

	return models.EquipmentKpiSnapshot{
		EquipmentTag:       tag,
		AsOf:               asOf,
		Capacity:           capacity,
		Mapped:             mapped,
		CumulativeExecuted: executed,
		Pending:            mapped - executed,
		CompletionPercent:  ratio(executed, mapped),
	}
}

// ProgressFraction clamps a completion percentage to [0,1] for progress bars.
func ProgressFraction(pct float64) float64 {
	switch {
	case pct <= 0:
		return 0
	case pct >= 100:
		return 1
	default:
		return pct / 100
	}
}
