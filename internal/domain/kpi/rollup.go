// Package kpi derives the contractual KPI set per maintenance type and area, and the cumulative progress
// of each equipment.
package kpi

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hxtubes/hxreport/internal/domain/models"
)

// GroupKey names a dimension of the area/type rollup.
type GroupKey string

const (
	ByType GroupKey = "type"
	ByArea GroupKey = "area"
)

// Common grouping lists.
var (
	TypeOnly    = []GroupKey{ByType}
	TypeAndArea = []GroupKey{ByType, ByArea}
)

type groupID struct {
	maintenanceType string
	area            string
}

func (k groupID) less(o groupID) bool {
	if k.maintenanceType != o.maintenanceType {
		return k.maintenanceType < o.maintenanceType
	}
	return k.area < o.area
}

func idFor(keys []GroupKey, maintenanceType, area string) groupID {
	var id groupID
	for _, k := range keys {
		switch k {
		case ByType:
			id.maintenanceType = maintenanceType
		case ByArea:
			id.area = area
		}
	}
	return id
}

// Rollup groups goal metrics by keys and derives one snapshot per group present in goals, ordered by type
// then area. Goal, released and done are summed across the goal rows of a group. The operational target is
// the sum of every matching record's shift target, one contribution per record.
// An empty key list rolls everything into a single snapshot. Unknown keys are ignored.
func Rollup(goals []models.GoalMetric, recs []models.ProductionRecord, keys []GroupKey) []models.AreaTypeKpiSnapshot {
	if len(goals) == 0 {
		return []models.AreaTypeKpiSnapshot{}
	}

	totals := make(map[groupID]models.GoalMetric)
	for _, g := range goals {
		id := idFor(keys, g.MaintenanceType, g.Area)
		acc := totals[id]
		acc.MaintenanceType = id.maintenanceType
		acc.Area = id.area
		acc.Goal += g.Goal
		acc.Released += g.Released
		acc.Done += g.Done
		totals[id] = acc
	}

	targets := make(map[groupID]float64)
	for _, r := range recs {
		targets[idFor(keys, r.MaintenanceType, r.EquipmentArea)] += r.ShiftTarget
	}

	ids := lo.Keys(totals)
	sort.Slice(ids, func(i, j int) bool { return ids[i].less(ids[j]) })

	out := make([]models.AreaTypeKpiSnapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, Snapshot(totals[id], targets[id]))
	}
	return out
}

// AreaType computes the snapshot of one goal row against records already restricted to its type and area.
func AreaType(goal models.GoalMetric, recs []models.ProductionRecord) models.AreaTypeKpiSnapshot {
	return Snapshot(goal, OperationalTarget(recs))
}

// OperationalTarget sums the shift target of every record, without deduplicating by shift.
func OperationalTarget(recs []models.ProductionRecord) float64 {
	return lo.SumBy(recs, func(r models.ProductionRecord) float64 { return r.ShiftTarget })
}

// Snapshot derives the five metrics, their percentages and bands. Every ratio with a non-positive
// denominator is 0.
func Snapshot(goal models.GoalMetric, operationalTarget float64) models.AreaTypeKpiSnapshot {
	s := models.AreaTypeKpiSnapshot{
		MaintenanceType:   goal.MaintenanceType,
		Area:              goal.Area,
		Goal:              goal.Goal,
		Released:          goal.Released,
		Executed:          goal.Done,
		OperationalTarget: operationalTarget,
		PendingExecution:  goal.Released - goal.Done,
		PendingRelease:    goal.Goal - goal.Released,
	}

	s.PercentReleased = ratio(s.Released, s.Goal)
	s.PercentProductivity = ratio(s.Executed, s.OperationalTarget)
	s.PercentPendingExecution = ratio(s.PendingExecution, s.Released)
	s.PercentPendingRelease = ratio(s.PendingRelease, s.Goal)

	s.Bands = models.KpiBands{
		Released:         HigherIsBetter(s.PercentReleased),
		Productivity:     HigherIsBetter(s.PercentProductivity),
		PendingExecution: LowerIsBetter(s.PercentPendingExecution),
		PendingRelease:   LowerIsBetter(s.PercentPendingRelease),
	}
	return s
}
