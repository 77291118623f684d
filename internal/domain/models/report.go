package models

import "time"

// Filter narrows the records and goal metrics used by a report. Empty slices select everything.
type Filter struct {
	Areas []string `json:"areas,omitempty" bson:"areas,omitempty"`
	Tags  []string `json:"tags,omitempty" bson:"tags,omitempty"`
}

// TypePanel is the contractual panel for one maintenance type.
type TypePanel struct {
	MaintenanceType string                `json:"maintenance_type"`
	Total           AreaTypeKpiSnapshot   `json:"total"`
	Areas           []AreaTypeKpiSnapshot `json:"areas"`
	ByShift         []SeriesPoint         `json:"by_shift"`
	ByEquipment     []SeriesPoint         `json:"by_equipment"`
	DailyCurve      []SeriesPoint         `json:"daily_curve"`
}

// Dashboard is the contractual follow-up panel for one fiscal period.
type Dashboard struct {
	ReferenceDate Date         `json:"reference_date"`
	Period        FiscalPeriod `json:"period"`
	Filter        Filter       `json:"filter"`
	Areas         []string     `json:"areas"`
	Tags          []string     `json:"tags"`
	Types         []TypePanel  `json:"types"`
}

// EquipmentDay groups the shift rows of one equipment on the report date with its cumulative progress.
type EquipmentDay struct {
	EquipmentTag     string               `json:"equipment_tag" bson:"equipment_tag"`
	ShiftTarget      float64              `json:"shift_target" bson:"shift_target"`
	MaintStatus      string               `json:"maint_status" bson:"maint_status"`
	MaintStartDate   Date                 `json:"maint_start_date" bson:"maint_start_date"`
	MaintDueDate     Date                 `json:"maint_due_date" bson:"maint_due_date"`
	MaintRealDueDate Date                 `json:"maint_real_due_date" bson:"maint_real_due_date"`
	Progress         EquipmentKpiSnapshot `json:"progress" bson:"progress"`
	Shifts           []ShiftSummaryRow    `json:"shifts" bson:"shifts"`
}

// DailySection is one maintenance type block of the daily report.
type DailySection struct {
	MaintenanceType string         `json:"maintenance_type" bson:"maintenance_type"`
	Equipment       []EquipmentDay `json:"equipment" bson:"equipment"`
}

// DailyReport is the per-day production report, also the document archived in MongoDB.
type DailyReport struct {
	Date        Date           `json:"date" bson:"date"`
	Period      FiscalPeriod   `json:"period" bson:"period"`
	Filter      Filter         `json:"filter" bson:"filter"`
	Sections    []DailySection `json:"sections" bson:"sections"`
	GeneratedAt time.Time      `json:"generated_at" bson:"generated_at"`
}

// Empty reports whether no shift was recorded on the report date.
func (r DailyReport) Empty() bool {
	return len(r.Sections) == 0
}
