package kpi

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hxtubes/hxreport/internal/domain/models"
)

// ByShift sums executed quantity and shift targets per shift name.
func ByShift(recs []models.ProductionRecord) []models.SeriesPoint {
	return series(recs, func(r models.ProductionRecord) string { return r.ShiftName })
}

// ByEquipment sums executed quantity and shift targets per equipment tag.
func ByEquipment(recs []models.ProductionRecord) []models.SeriesPoint {
	return series(recs, func(r models.ProductionRecord) string { return r.EquipmentTag })
}

// DailyCurve sums executed quantity and shift targets per known date, in date order.
func DailyCurve(recs []models.ProductionRecord) []models.SeriesPoint {
	dated := lo.Filter(recs, func(r models.ProductionRecord, _ int) bool { return r.Date.Known() })
	return series(dated, func(r models.ProductionRecord) string { return r.Date.String() })
}

// series labels sort lexicographically; ISO dates therefore come out in calendar order.
func series(recs []models.ProductionRecord, label func(models.ProductionRecord) string) []models.SeriesPoint {
	groups := lo.GroupBy(recs, label)
	labels := lo.Keys(groups)
	sort.Strings(labels)

	out := make([]models.SeriesPoint, 0, len(labels))
	for _, l := range labels {
		g := groups[l]
		out = append(out, models.SeriesPoint{
			Label:    l,
			Executed: lo.SumBy(g, func(r models.ProductionRecord) float64 { return r.Quantity }),
			Target:   lo.SumBy(g, func(r models.ProductionRecord) float64 { return r.ShiftTarget }),
		})
	}
	return out
}
