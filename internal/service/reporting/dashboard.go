package reporting

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/hxtubes/hxreport/internal/domain/kpi"
	"github.com/hxtubes/hxreport/internal/domain/models"
)

// Dashboard builds the contract panel of the fiscal period enclosing ref.
// Areas and Tags list every choice available in the period regardless of f.
func (s *Service) Dashboard(ctx context.Context, ref models.Date, f models.Filter) (models.Dashboard, error) {
	p := s.Period(ref)
	data, err := s.load(ctx, p)
	if err != nil {
		return models.Dashboard{}, err
	}

	panel := BuildDashboard(ref, p, data.goals, data.records, f)
	s.logger.Info("dashboard built",
		zap.String("reference_date", ref.String()),
		zap.String("period", p.Label),
		zap.Int("types", len(panel.Types)),
	)
	return panel, nil
}

// BuildDashboard assembles the panel from already loaded inputs.
func BuildDashboard(ref models.Date, p models.FiscalPeriod, goals []models.GoalMetric, recs []models.ProductionRecord, f models.Filter) models.Dashboard {
	areas := sortedUniq(append(
		lo.Map(goals, func(g models.GoalMetric, _ int) string { return g.Area }),
		lo.Map(recs, func(r models.ProductionRecord, _ int) string { return r.EquipmentArea })...,
	))
	tags := sortedUniq(lo.Map(recs, func(r models.ProductionRecord, _ int) string { return r.EquipmentTag }))

	goals = FilterGoals(goals, f)
	recs = FilterRecords(recs, f)

	types := sortedUniq(append(
		lo.Map(goals, func(g models.GoalMetric, _ int) string { return g.MaintenanceType }),
		lo.Map(recs, func(r models.ProductionRecord, _ int) string { return r.MaintenanceType })...,
	))

	panels := make([]models.TypePanel, 0, len(types))
	for _, t := range types {
		typeGoals := lo.Filter(goals, func(g models.GoalMetric, _ int) bool { return g.MaintenanceType == t })
		typeRecs := lo.Filter(recs, func(r models.ProductionRecord, _ int) bool { return r.MaintenanceType == t })
		panels = append(panels, typePanel(t, typeGoals, typeRecs))
	}

	return models.Dashboard{
		ReferenceDate: ref,
		Period:        p,
		Filter:        f,
		Areas:         areas,
		Tags:          tags,
		Types:         panels,
	}
}

func typePanel(maintenanceType string, goals []models.GoalMetric, recs []models.ProductionRecord) models.TypePanel {
	total := kpi.Snapshot(models.GoalMetric{MaintenanceType: maintenanceType}, kpi.OperationalTarget(recs))
	if totals := kpi.Rollup(goals, recs, kpi.TypeOnly); len(totals) > 0 {
		total = totals[0]
	}

	return models.TypePanel{
		MaintenanceType: maintenanceType,
		Total:           total,
		Areas:           kpi.Rollup(goals, recs, kpi.TypeAndArea),
		ByShift:         kpi.ByShift(recs),
		ByEquipment:     kpi.ByEquipment(recs),
		DailyCurve:      kpi.DailyCurve(recs),
	}
}
