package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hxtubes/hxreport/internal/config"
	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/internal/domain/period"
	"github.com/hxtubes/hxreport/internal/domain/records"
)

// DataSource supplies raw rows of a named view.
type DataSource interface {
	FetchRanged(ctx context.Context, view string, start, end models.Date) ([]records.Row, error)
	FetchAll(ctx context.Context, view string) ([]records.Row, error)
}

// Service builds the contract panel and the daily production report.
type Service struct {
	source         DataSource
	productionView string
	goalsView      string
	location       *time.Location
	now            func() time.Time
	logger         *zap.Logger
}

// NewService wires a new reporting service instance. Dates without an explicit
// reference resolve against loc.
func NewService(source DataSource, cfg config.SourceConfig, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		source:         source,
		productionView: cfg.ProductionView,
		goalsView:      cfg.GoalsView,
		location:       loc,
		now:            time.Now,
		logger:         logger,
	}
}

// Yesterday is the default reference date: the day before today in the service timezone.
func (s *Service) Yesterday() models.Date {
	return models.DateOf(s.now().In(s.location)).AddDays(-1)
}

// Period returns the fiscal cycle enclosing ref.
func (s *Service) Period(ref models.Date) models.FiscalPeriod {
	return period.Of(ref)
}

// dataset is one fiscal period worth of normalized inputs.
type dataset struct {
	goals   []models.GoalMetric
	records []models.ProductionRecord
}

// load fetches the goals view and the period slice of the production view concurrently.
func (s *Service) load(ctx context.Context, p models.FiscalPeriod) (dataset, error) {
	var (
		goalRows []records.Row
		prodRows []records.Row
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.source.FetchAll(gCtx, s.goalsView)
		if err != nil {
			return fmt.Errorf("fetch goals view %s: %w", s.goalsView, err)
		}
		goalRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.FetchRanged(gCtx, s.productionView, p.Start, p.End)
		if err != nil {
			return fmt.Errorf("fetch production view %s: %w", s.productionView, err)
		}
		prodRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return dataset{}, err
	}

	goals, goalStats, err := records.NormalizeGoals(goalRows)
	if err != nil {
		return dataset{}, err
	}
	recs, prodStats, err := records.NormalizeProduction(prodRows)
	if err != nil {
		return dataset{}, err
	}

	s.logger.Debug("datasets normalized",
		zap.String("period", p.Key()),
		zap.Int("goal_rows", goalStats.Rows),
		zap.Int("production_rows", prodStats.Rows),
		zap.Int("defaulted_numbers", goalStats.DefaultedNums+prodStats.DefaultedNums),
		zap.Int("defaulted_texts", goalStats.DefaultedTexts+prodStats.DefaultedTexts),
		zap.Int("unknown_dates", prodStats.UnknownDates),
	)

	return dataset{goals: goals, records: recs}, nil
}

// FilterGoals keeps goal rows whose area is selected. An empty area list selects all.
func FilterGoals(goals []models.GoalMetric, f models.Filter) []models.GoalMetric {
	return lo.Filter(goals, func(g models.GoalMetric, _ int) bool {
		return selected(f.Areas, g.Area)
	})
}

// FilterRecords keeps records whose area and tag are both selected.
func FilterRecords(recs []models.ProductionRecord, f models.Filter) []models.ProductionRecord {
	return lo.Filter(recs, func(r models.ProductionRecord, _ int) bool {
		return selected(f.Areas, r.EquipmentArea) && selected(f.Tags, r.EquipmentTag)
	})
}

func selected(choices []string, value string) bool {
	return len(choices) == 0 || lo.Contains(choices, value)
}

func sortedUniq(values []string) []string {
	out := lo.Uniq(lo.Compact(values))
	sort.Strings(out)
	return out
}
