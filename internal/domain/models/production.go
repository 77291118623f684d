package models

// Default text values applied by the normalizer when a field is missing.
const (
	DefaultEquipmentTag = "N/A"
	DefaultMaintStatus  = "Undefined"
)

// ProductionRecord is one raw shift-level observation after normalization.
type ProductionRecord struct {
	EquipmentTag     string  `json:"equipment_tag" bson:"equipment_tag"`
	EquipmentArea    string  `json:"equipment_area" bson:"equipment_area"`
	MaintenanceType  string  `json:"maintenance_type" bson:"maintenance_type"`
	ShiftName        string  `json:"shift_name" bson:"shift_name"`
	Date             Date    `json:"date" bson:"date"`
	Quantity         float64 `json:"quantity" bson:"quantity"`
	ShiftTarget      float64 `json:"meta_turno" bson:"meta_turno"`
	TotalTubes       float64 `json:"total_tubos" bson:"total_tubos"`
	MaintStartDate   Date    `json:"maint_start_date" bson:"maint_start_date"`
	MaintDueDate     Date    `json:"maint_due_date" bson:"maint_due_date"`
	MaintRealDueDate Date    `json:"maint_real_due_date" bson:"maint_real_due_date"`
	MaintStatus      string  `json:"maint_status" bson:"maint_status"`
	Notes            string  `json:"notes" bson:"notes"`
}

// GoalMetric is a macro KPI row per area and maintenance type, pre-aggregated upstream for the whole period.
type GoalMetric struct {
	Area            string  `json:"area" bson:"area"`
	MaintenanceType string  `json:"maintenance_type" bson:"maintenance_type"`
	Goal            float64 `json:"goal" bson:"goal"`
	Released        float64 `json:"released" bson:"released"`
	Done            float64 `json:"done" bson:"done"`
}
