// Package records coerces raw rows from the hosted store into canonical production and goal records.
//
// Coercion is fail-soft: a value that cannot be converted is replaced by its documented default and the
// rest of the batch keeps going. Only a grouping column missing from the whole batch is reported, as a
// *SchemaError.
package records

import (
	"strings"

	"github.com/samber/lo"

	"github.com/hxtubes/hxreport/internal/domain/models"
)

// Row is one raw row as decoded from the data source.
type Row = map[string]any

// Column names of the production view.
const (
	ColEquipmentTag     = "equipment_tag"
	ColEquipmentArea    = "equipment_area"
	ColMaintenanceType  = "maintenance_type"
	ColShiftName        = "shift_name"
	ColDate             = "date"
	ColQuantity         = "quantity"
	ColShiftTarget      = "meta_turno"
	ColTotalTubes       = "total_tubos"
	ColMaintStartDate   = "maint_start_date"
	ColMaintDueDate     = "maint_due_date"
	ColMaintRealDueDate = "maint_real_due_date"
	ColMaintStatus      = "maint_status"
	ColNotes            = "notes"
)

// Column names of the consolidated goals view.
const (
	ColArea     = "area"
	ColGoal     = "goal"
	ColReleased = "released"
	ColDone     = "done"
)

// Dataset names used in schema errors.
const (
	DatasetProduction = "production"
	DatasetGoals      = "goals"
)

var (
	productionRequired = []string{ColEquipmentTag, ColEquipmentArea, ColMaintenanceType, ColShiftName, ColDate}
	goalsRequired      = []string{ColArea, ColMaintenanceType}
)

// Stats counts the values replaced by defaults during a normalization pass.
type Stats struct {
	Rows           int
	DefaultedNums  int
	UnknownDates   int
	DefaultedTexts int
}

// NormalizeProduction converts raw production rows. An empty input returns an empty, non-nil slice.
func NormalizeProduction(rows []Row) ([]models.ProductionRecord, Stats, error) {
	stats := Stats{Rows: len(rows)}
	if err := checkSchema(DatasetProduction, rows, productionRequired); err != nil {
		return nil, stats, err
	}

	out := make([]models.ProductionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ProductionRecord{
			EquipmentTag:     text(row, ColEquipmentTag, models.DefaultEquipmentTag, &stats),
			EquipmentArea:    text(row, ColEquipmentArea, "", &stats),
			MaintenanceType:  text(row, ColMaintenanceType, "", &stats),
			ShiftName:        text(row, ColShiftName, "", &stats),
			Date:             date(row, ColDate, &stats),
			Quantity:         quantity(row, ColQuantity, &stats),
			ShiftTarget:      quantity(row, ColShiftTarget, &stats),
			TotalTubes:       quantity(row, ColTotalTubes, &stats),
			MaintStartDate:   date(row, ColMaintStartDate, &stats),
			MaintDueDate:     date(row, ColMaintDueDate, &stats),
			MaintRealDueDate: date(row, ColMaintRealDueDate, &stats),
			MaintStatus:      text(row, ColMaintStatus, models.DefaultMaintStatus, &stats),
			Notes:            note(row),
		})
	}

	return out, stats, nil
}

// NormalizeGoals converts raw consolidated goal rows. Numbers are not clamped: they are upstream totals.
func NormalizeGoals(rows []Row) ([]models.GoalMetric, Stats, error) {
	stats := Stats{Rows: len(rows)}
	if err := checkSchema(DatasetGoals, rows, goalsRequired); err != nil {
		return nil, stats, err
	}

	out := make([]models.GoalMetric, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.GoalMetric{
			Area:            text(row, ColArea, "", &stats),
			MaintenanceType: text(row, ColMaintenanceType, "", &stats),
			Goal:            number(row, ColGoal, &stats),
			Released:        number(row, ColReleased, &stats),
			Done:            number(row, ColDone, &stats),
		})
	}

	return out, stats, nil
}

// ProductionRow is the inverse of NormalizeProduction for one record.
func ProductionRow(r models.ProductionRecord) Row {
	return Row{
		ColEquipmentTag:     r.EquipmentTag,
		ColEquipmentArea:    r.EquipmentArea,
		ColMaintenanceType:  r.MaintenanceType,
		ColShiftName:        r.ShiftName,
		ColDate:             r.Date.String(),
		ColQuantity:         r.Quantity,
		ColShiftTarget:      r.ShiftTarget,
		ColTotalTubes:       r.TotalTubes,
		ColMaintStartDate:   r.MaintStartDate.String(),
		ColMaintDueDate:     r.MaintDueDate.String(),
		ColMaintRealDueDate: r.MaintRealDueDate.String(),
		ColMaintStatus:      r.MaintStatus,
		ColNotes:            r.Notes,
	}
}

// GoalRow is the inverse of NormalizeGoals for one metric.
func GoalRow(g models.GoalMetric) Row {
	return Row{
		ColArea:            g.Area,
		ColMaintenanceType: g.MaintenanceType,
		ColGoal:            g.Goal,
		ColReleased:        g.Released,
		ColDone:            g.Done,
	}
}

func checkSchema(dataset string, rows []Row, required []string) error {
	if len(rows) == 0 {
		return nil
	}

	missing := lo.Filter(required, func(col string, _ int) bool {
		return !lo.SomeBy(rows, func(row Row) bool {
			_, ok := row[col]
			return ok
		})
	})
	if len(missing) > 0 {
		return &SchemaError{Dataset: dataset, Missing: missing}
	}
	return nil
}

func text(row Row, col, fallback string, stats *Stats) string {
	v, ok := row[col]
	if !ok || v == nil {
		stats.DefaultedTexts++
		return fallback
	}
	s := strings.TrimSpace(toString(v))
	if s == "" {
		stats.DefaultedTexts++
		return fallback
	}
	return s
}

// note keeps the raw text; whitespace-only notes are dropped later by the shift aggregator.
func note(row Row) string {
	v, ok := row[ColNotes]
	if !ok || v == nil {
		return ""
	}
	return toString(v)
}

func number(row Row, col string, stats *Stats) float64 {
	f, ok := ParseNumber(row[col])
	if !ok {
		stats.DefaultedNums++
	}
	return f
}

func quantity(row Row, col string, stats *Stats) float64 {
	f := number(row, col, stats)
	if f < 0 {
		stats.DefaultedNums++
		return 0
	}
	return f
}

func date(row Row, col string, stats *Stats) models.Date {
	d := ParseDate(row[col])
	if !d.Known() {
		stats.UnknownDates++
	}
	return d
}
