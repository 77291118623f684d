package reporting

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/hxtubes/hxreport/internal/domain/kpi"
	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/internal/domain/shifts"
)

// DailyReport builds the per-shift report of ref, with each equipment's progress
// accumulated over the enclosing fiscal period up to ref.
func (s *Service) DailyReport(ctx context.Context, ref models.Date, f models.Filter) (models.DailyReport, error) {
	p := s.Period(ref)
	data, err := s.load(ctx, p)
	if err != nil {
		return models.DailyReport{}, err
	}

	report := BuildDailyReport(ref, p, data.records, f)
	report.GeneratedAt = s.now().UTC()

	s.logger.Info("daily report built",
		zap.String("date", ref.String()),
		zap.Int("sections", len(report.Sections)),
	)
	return report, nil
}

// BuildDailyReport assembles the report from already loaded production records.
func BuildDailyReport(ref models.Date, p models.FiscalPeriod, recs []models.ProductionRecord, f models.Filter) models.DailyReport {
	recs = FilterRecords(recs, f)
	rows := shifts.Summarize(recs, ref)

	byType := lo.GroupBy(rows, func(r models.ShiftSummaryRow) string { return r.MaintenanceType })
	types := lo.Keys(byType)
	sort.Strings(types)

	sections := make([]models.DailySection, 0, len(types))
	for _, t := range types {
		sections = append(sections, models.DailySection{
			MaintenanceType: t,
			Equipment:       equipmentDays(byType[t], recs, ref),
		})
	}

	return models.DailyReport{
		Date:     ref,
		Period:   p,
		Filter:   f,
		Sections: sections,
	}
}

// equipmentDays splits rows, already ordered by tag then shift, into one entry per tag.
func equipmentDays(rows []models.ShiftSummaryRow, recs []models.ProductionRecord, ref models.Date) []models.EquipmentDay {
	out := make([]models.EquipmentDay, 0)
	for _, row := range rows {
		if n := len(out); n > 0 && out[n-1].EquipmentTag == row.EquipmentTag {
			last := &out[n-1]
			last.Shifts = append(last.Shifts, row)
			last.ShiftTarget = max(last.ShiftTarget, row.Target)
			continue
		}
		out = append(out, models.EquipmentDay{
			EquipmentTag:     row.EquipmentTag,
			ShiftTarget:      row.Target,
			MaintStatus:      row.MaintStatus,
			MaintStartDate:   row.MaintStartDate,
			MaintDueDate:     row.MaintDueDate,
			MaintRealDueDate: row.MaintRealDueDate,
			Progress:         kpi.Equipment(row.EquipmentTag, recs, ref),
			Shifts:           []models.ShiftSummaryRow{row},
		})
	}
	return out
}
