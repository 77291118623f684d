// Package shifts collapses the raw records of one day into one row per equipment and shift.
package shifts

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/hxtubes/hxreport/internal/domain/models"
)

// NoteSeparator joins the non-blank notes of a group.
const NoteSeparator = " | "

type groupKey struct {
	tag   string
	shift string
}

// Summarize returns one row per (equipment tag, shift name) recorded on day, ordered by tag then shift.
// Target, type, schedule dates and maintenance status are taken from the first record of each group.
func Summarize(recs []models.ProductionRecord, day models.Date) []models.ShiftSummaryRow {
	onDay := lo.Filter(recs, func(r models.ProductionRecord, _ int) bool {
		return r.Date.Equal(day)
	})
	if len(onDay) == 0 {
		return []models.ShiftSummaryRow{}
	}

	groups := lo.GroupBy(onDay, func(r models.ProductionRecord) groupKey {
		return groupKey{tag: r.EquipmentTag, shift: r.ShiftName}
	})

	keys := lo.Keys(groups)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].tag != keys[j].tag {
			return keys[i].tag < keys[j].tag
		}
		return keys[i].shift < keys[j].shift
	})

	out := make([]models.ShiftSummaryRow, 0, len(keys))
	for _, key := range keys {
		out = append(out, summarizeGroup(groups[key]))
	}
	return out
}

func summarizeGroup(group []models.ProductionRecord) models.ShiftSummaryRow {
	first := group[0]

	realized := lo.SumBy(group, func(r models.ProductionRecord) float64 { return r.Quantity })
	deviation := realized - first.ShiftTarget

	return models.ShiftSummaryRow{
		EquipmentTag:     first.EquipmentTag,
		ShiftName:        first.ShiftName,
		MaintenanceType:  first.MaintenanceType,
		Realized:         realized,
		Target:           first.ShiftTarget,
		Deviation:        deviation,
		Status:           StatusOf(deviation),
		Notes:            JoinNotes(lo.Map(group, func(r models.ProductionRecord, _ int) string { return r.Notes })),
		MaintStartDate:   first.MaintStartDate,
		MaintDueDate:     first.MaintDueDate,
		MaintRealDueDate: first.MaintRealDueDate,
		MaintStatus:      first.MaintStatus,
	}
}

// StatusOf classifies a deviation. Exactly meeting the target counts as on target.
func StatusOf(deviation float64) models.ShiftStatus {
	if deviation >= 0 {
		return models.OnTarget
	}
	return models.BelowTarget
}

// JoinNotes drops empty and whitespace-only notes and joins the rest in order.
func JoinNotes(notes []string) string {
	kept := lo.Filter(notes, func(n string, _ int) bool {
		return strings.TrimSpace(n) != ""
	})
	return strings.Join(kept, NoteSeparator)
}
