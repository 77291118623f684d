package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hxtubes/hxreport/internal/config"
	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/internal/domain/records"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchRanged(ctx context.Context, view string, start, end models.Date) ([]records.Row, error) {
	args := m.Called(ctx, view, start, end)
	rows, _ := args.Get(0).([]records.Row)
	return rows, args.Error(1)
}

func (m *mockSource) FetchAll(ctx context.Context, view string) ([]records.Row, error) {
	args := m.Called(ctx, view)
	rows, _ := args.Get(0).([]records.Row)
	return rows, args.Error(1)
}

var (
	refDate     = models.NewDate(2026, time.January, 5)
	periodStart = models.NewDate(2025, time.December, 16)
	periodEnd   = models.NewDate(2026, time.January, 15)
)

func goalRows() []records.Row {
	return []records.Row{
		{"area": "Digestão", "maintenance_type": "Hidro", "goal": 1000.0, "released": 900.0, "done": 450.0},
		{"area": "Calcinação", "maintenance_type": "Hidro", "goal": 500.0, "released": 500.0, "done": 100.0},
		{"area": "Digestão", "maintenance_type": "Mecânica", "goal": 200.0, "released": 100.0, "done": 50.0},
	}
}

func prodRow(tag, area, typ, shift, date string, qty, target, tubes float64) records.Row {
	return records.Row{
		"equipment_tag":    tag,
		"equipment_area":   area,
		"maintenance_type": typ,
		"shift_name":       shift,
		"date":             date,
		"quantity":         qty,
		"meta_turno":       target,
		"total_tubos":      tubes,
		"maint_status":     "Em andamento",
	}
}

func productionRows() []records.Row {
	first := prodRow("TC-1", "Digestão", "Hidro", "Turno A", "2026-01-05", 30, 50, 500)
	first["notes"] = "ok"
	return []records.Row{
		first,
		prodRow("TC-1", "Digestão", "Hidro", "Turno A", "2026-01-05", 45, 50, 500),
		prodRow("TC-1", "Digestão", "Hidro", "Turno B", "2026-01-05", 20, 60, 500),
		prodRow("TC-1", "Digestão", "Hidro", "Turno A", "2026-01-04", 100, 50, 500),
		prodRow("TC-2", "Calcinação", "Hidro", "Turno A", "2026-01-05", 10, 20, 100),
		prodRow("TC-3", "Digestão", "Mecânica", "Turno A", "2026-01-06", 5, 25, 0),
	}
}

func newTestService(src DataSource) *Service {
	return NewService(src, config.SourceConfig{ProductionView: "prod", GoalsView: "goals"}, time.UTC, nil)
}

func stubSource() *mockSource {
	src := new(mockSource)
	src.On("FetchAll", mock.Anything, "goals").Return(goalRows(), nil)
	src.On("FetchRanged", mock.Anything, "prod", periodStart, periodEnd).Return(productionRows(), nil)
	return src
}

func TestYesterday_UsesServiceTimezone(t *testing.T) {
	svc := NewService(nil, config.SourceConfig{}, time.FixedZone("BRT", -3*3600), nil)
	svc.now = func() time.Time { return time.Date(2026, 1, 6, 2, 0, 0, 0, time.UTC) }

	assert.Equal(t, "2026-01-04", svc.Yesterday().String())
}

func TestPeriod(t *testing.T) {
	p := newTestService(nil).Period(refDate)

	assert.Equal(t, periodStart, p.Start)
	assert.Equal(t, periodEnd, p.End)
	assert.Equal(t, "JANEIRO/2026", p.Label)
}

func TestDailyReport(t *testing.T) {
	src := stubSource()
	svc := newTestService(src)
	svc.now = func() time.Time { return time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC) }

	report, err := svc.DailyReport(context.Background(), refDate, models.Filter{})
	require.NoError(t, err)
	src.AssertExpectations(t)

	assert.Equal(t, "JANEIRO/2026", report.Period.Label)
	assert.Equal(t, time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC), report.GeneratedAt)
	require.Len(t, report.Sections, 1)
	assert.Equal(t, "Hidro", report.Sections[0].MaintenanceType)

	equipment := report.Sections[0].Equipment
	require.Len(t, equipment, 2)

	tc1 := equipment[0]
	assert.Equal(t, "TC-1", tc1.EquipmentTag)
	assert.Equal(t, 60.0, tc1.ShiftTarget)
	assert.Equal(t, "Em andamento", tc1.MaintStatus)
	require.Len(t, tc1.Shifts, 2)
	assert.Equal(t, 75.0, tc1.Shifts[0].Realized)
	assert.Equal(t, 25.0, tc1.Shifts[0].Deviation)
	assert.Equal(t, models.OnTarget, tc1.Shifts[0].Status)
	assert.Equal(t, "ok", tc1.Shifts[0].Notes)
	assert.Equal(t, models.BelowTarget, tc1.Shifts[1].Status)

	assert.Equal(t, 500.0, tc1.Progress.Capacity)
	assert.Equal(t, 195.0, tc1.Progress.CumulativeExecuted)
	assert.Equal(t, 305.0, tc1.Progress.Pending)
	assert.Equal(t, 39.0, tc1.Progress.CompletionPercent)

	tc2 := equipment[1]
	assert.Equal(t, "TC-2", tc2.EquipmentTag)
	assert.Equal(t, 10.0, tc2.Progress.CompletionPercent)
}

func TestDailyReport_FilterAndEmptyDay(t *testing.T) {
	svc := newTestService(stubSource())

	filtered, err := svc.DailyReport(context.Background(), refDate, models.Filter{Tags: []string{"TC-2"}})
	require.NoError(t, err)
	require.Len(t, filtered.Sections, 1)
	require.Len(t, filtered.Sections[0].Equipment, 1)
	assert.Equal(t, "TC-2", filtered.Sections[0].Equipment[0].EquipmentTag)

	empty := BuildDailyReport(models.NewDate(2026, time.January, 10), svc.Period(refDate), nil, models.Filter{})
	assert.True(t, empty.Empty())
	assert.NotNil(t, empty.Sections)
}

func TestDashboard(t *testing.T) {
	svc := newTestService(stubSource())

	panel, err := svc.Dashboard(context.Background(), refDate, models.Filter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Calcinação", "Digestão"}, panel.Areas)
	assert.Equal(t, []string{"TC-1", "TC-2", "TC-3"}, panel.Tags)
	require.Len(t, panel.Types, 2)

	hidro := panel.Types[0]
	assert.Equal(t, "Hidro", hidro.MaintenanceType)
	require.Len(t, hidro.Areas, 2)
	assert.Equal(t, "Calcinação", hidro.Areas[0].Area)
	assert.Equal(t, 20.0, hidro.Areas[0].OperationalTarget)
	assert.Equal(t, 210.0, hidro.Areas[1].OperationalTarget)

	assert.Equal(t, 1500.0, hidro.Total.Goal)
	assert.Equal(t, 1400.0, hidro.Total.Released)
	assert.Equal(t, 550.0, hidro.Total.Executed)
	assert.Equal(t, 230.0, hidro.Total.OperationalTarget)
	assert.InDelta(t, 93.33, hidro.Total.PercentReleased, 0.01)
	assert.Equal(t, models.BandGreen, hidro.Total.Bands.Released)

	require.Len(t, hidro.ByShift, 2)
	assert.Equal(t, models.SeriesPoint{Label: "Turno A", Executed: 185, Target: 170}, hidro.ByShift[0])
	require.Len(t, hidro.DailyCurve, 2)
	assert.Equal(t, models.SeriesPoint{Label: "2026-01-05", Executed: 105, Target: 180}, hidro.DailyCurve[1])

	mecanica := panel.Types[1]
	assert.Equal(t, 25.0, mecanica.Total.OperationalTarget)
	assert.Equal(t, 200.0, mecanica.Total.Goal)
}

func TestDashboard_AreaFilter(t *testing.T) {
	svc := newTestService(stubSource())

	panel, err := svc.Dashboard(context.Background(), refDate, models.Filter{Areas: []string{"Digestão"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Calcinação", "Digestão"}, panel.Areas, "choices are not narrowed by the filter")
	hidro := panel.Types[0]
	require.Len(t, hidro.Areas, 1)
	assert.Equal(t, 1000.0, hidro.Total.Goal)
	assert.Equal(t, 210.0, hidro.Total.OperationalTarget)
}

func TestBuildDashboard_TypeWithoutGoals(t *testing.T) {
	recs := []models.ProductionRecord{{EquipmentTag: "X", EquipmentArea: "A", MaintenanceType: "Solda", ShiftTarget: 40, Quantity: 10}}

	panel := BuildDashboard(refDate, models.FiscalPeriod{}, nil, recs, models.Filter{})

	require.Len(t, panel.Types, 1)
	assert.Equal(t, "Solda", panel.Types[0].Total.MaintenanceType)
	assert.Equal(t, 40.0, panel.Types[0].Total.OperationalTarget)
	assert.Empty(t, panel.Types[0].Areas)
}

func TestLoad_Errors(t *testing.T) {
	failing := new(mockSource)
	failing.On("FetchAll", mock.Anything, "goals").Return(nil, assert.AnError)
	failing.On("FetchRanged", mock.Anything, "prod", mock.Anything, mock.Anything).Return([]records.Row{}, nil)

	_, err := newTestService(failing).Dashboard(context.Background(), refDate, models.Filter{})
	assert.ErrorIs(t, err, assert.AnError)

	broken := new(mockSource)
	broken.On("FetchAll", mock.Anything, "goals").Return(goalRows(), nil)
	broken.On("FetchRanged", mock.Anything, "prod", mock.Anything, mock.Anything).
		Return([]records.Row{{"equipment_tag": "TC-1", "equipment_area": "A", "maintenance_type": "T", "shift_name": "S"}}, nil)

	_, err = newTestService(broken).DailyReport(context.Background(), refDate, models.Filter{})
	assert.ErrorIs(t, err, records.ErrSchema)
}

func TestFormatSummary(t *testing.T) {
	svc := newTestService(stubSource())
	report, err := svc.DailyReport(context.Background(), refDate, models.Filter{})
	require.NoError(t, err)

	text := FormatSummary(report)

	assert.Contains(t, text, "Data: 05/01/2026")
	assert.Contains(t, text, "Ciclo: JANEIRO/2026")
	assert.Contains(t, text, "*Hidro*")
	assert.Contains(t, text, "TC-1 (meta do turno 60) | Progresso: 39.0%")
	assert.Contains(t, text, "- Turno A: 75/50 (+25) META BATIDA")
	assert.Contains(t, text, "  Obs: ok")
	assert.Contains(t, text, "- Turno B: 20/60 (-40) ABAIXO DA META")

	empty := FormatSummary(models.DailyReport{Date: refDate})
	assert.Contains(t, empty, EmptyDayMessage)
}

func TestStatusLabelAndDeviation(t *testing.T) {
	assert.Equal(t, LabelOnTarget, StatusLabel(models.OnTarget))
	assert.Equal(t, LabelBelowTarget, StatusLabel(models.BelowTarget))
	assert.Equal(t, "+5", SignedDeviation(5))
	assert.Equal(t, "0", SignedDeviation(0))
	assert.Equal(t, "-3", SignedDeviation(-3))
}
