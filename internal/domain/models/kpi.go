package models

// FiscalPeriod is one 16th-to-15th accounting cycle. End is inclusive.
type FiscalPeriod struct {
	Start Date   `json:"start" bson:"start"`
	End   Date   `json:"end" bson:"end"`
	Label string `json:"label" bson:"label"`
}

// Key identifies the period for caching and archiving, e.g. "2026-01".
func (p FiscalPeriod) Key() string {
	return p.End.Format("2006-01")
}

// Contains reports whether d falls inside the period.
func (p FiscalPeriod) Contains(d Date) bool {
	if !d.Known() {
		return false
	}
	return !d.Before(p.Start) && !d.After(p.End)
}

// ShiftStatus is the two-state outcome of a shift against its target.
type ShiftStatus string

const (
	OnTarget    ShiftStatus = "on-target"
	BelowTarget ShiftStatus = "below-target"
)

// ShiftSummaryRow is the single-day rollup for one equipment and shift.
type ShiftSummaryRow struct {
	EquipmentTag     string      `json:"equipment_tag" bson:"equipment_tag"`
	ShiftName        string      `json:"shift_name" bson:"shift_name"`
	MaintenanceType  string      `json:"maintenance_type" bson:"maintenance_type"`
	Realized         float64     `json:"realized" bson:"realized"`
	Target           float64     `json:"target" bson:"target"`
	Deviation        float64     `json:"deviation" bson:"deviation"`
	Status           ShiftStatus `json:"status" bson:"status"`
	Notes            string      `json:"notes" bson:"notes"`
	MaintStartDate   Date        `json:"maint_start_date" bson:"maint_start_date"`
	MaintDueDate     Date        `json:"maint_due_date" bson:"maint_due_date"`
	MaintRealDueDate Date        `json:"maint_real_due_date" bson:"maint_real_due_date"`
	MaintStatus      string      `json:"maint_status" bson:"maint_status"`
}

// EquipmentKpiSnapshot is the cumulative progress of one equipment as of a date.
type EquipmentKpiSnapshot struct {
	EquipmentTag       string  `json:"equipment_tag" bson:"equipment_tag"`
	AsOf               Date    `json:"as_of" bson:"as_of"`
	Capacity           float64 `json:"capacity" bson:"capacity"`
	Mapped             float64 `json:"mapped" bson:"mapped"`
	CumulativeExecuted float64 `json:"cumulative_executed" bson:"cumulative_executed"`
	Pending            float64 `json:"pending" bson:"pending"`
	CompletionPercent  float64 `json:"completion_percent" bson:"completion_percent"`
}

// Band is the traffic-light classification of a percentage.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

// KpiBands holds the banding of the four ratio metrics of an AreaTypeKpiSnapshot.
type KpiBands struct {
	Released         Band `json:"released" bson:"released"`
	Productivity     Band `json:"productivity" bson:"productivity"`
	PendingExecution Band `json:"pending_execution" bson:"pending_execution"`
	PendingRelease   Band `json:"pending_release" bson:"pending_release"`
}

// AreaTypeKpiSnapshot is the five-metric contractual KPI set for one group.
// Area is empty when the rollup was not grouped by area, and likewise for MaintenanceType.
type AreaTypeKpiSnapshot struct {
	MaintenanceType         string   `json:"maintenance_type" bson:"maintenance_type"`
	Area                    string   `json:"area" bson:"area"`
	Goal                    float64  `json:"goal" bson:"goal"`
	Released                float64  `json:"released" bson:"released"`
	Executed                float64  `json:"executed" bson:"executed"`
	OperationalTarget       float64  `json:"operational_target" bson:"operational_target"`
	PercentReleased         float64  `json:"percent_released" bson:"percent_released"`
	PercentProductivity     float64  `json:"percent_productivity" bson:"percent_productivity"`
	PendingExecution        float64  `json:"pending_execution" bson:"pending_execution"`
	PercentPendingExecution float64  `json:"percent_pending_execution" bson:"percent_pending_execution"`
	PendingRelease          float64  `json:"pending_release" bson:"pending_release"`
	PercentPendingRelease   float64  `json:"percent_pending_release" bson:"percent_pending_release"`
	Bands                   KpiBands `json:"bands" bson:"bands"`
}

// SeriesPoint is one bar or line point of executed vs target production.
type SeriesPoint struct {
	Label    string  `json:"label" bson:"label"`
	Executed float64 `json:"executed" bson:"executed"`
	Target   float64 `json:"target" bson:"target"`
}
