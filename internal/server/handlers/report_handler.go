package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/internal/domain/records"
	"github.com/hxtubes/hxreport/internal/service/export"
)

// Accepted layouts of the date query parameter.
var queryDateLayouts = []string{models.DateLayout, "02/01/2006"}

// ReportService is the reporting surface served over HTTP.
type ReportService interface {
	Yesterday() models.Date
	Period(ref models.Date) models.FiscalPeriod
	Dashboard(ctx context.Context, ref models.Date, f models.Filter) (models.Dashboard, error)
	DailyReport(ctx context.Context, ref models.Date, f models.Filter) (models.DailyReport, error)
}

// ReportHandler exposes the fiscal period, contract panel and daily report.
type ReportHandler struct {
	svc    ReportService
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// Period returns the fiscal cycle enclosing the date parameter.
func (h *ReportHandler) Period(c *gin.Context) {
	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.Period(ref))
}

// Dashboard returns the contract panel.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}

	panel, err := h.svc.Dashboard(c.Request.Context(), ref, filterFrom(c))
	if err != nil {
		h.fail(c, "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, panel)
}

// Daily returns the per-shift report of one day.
func (h *ReportHandler) Daily(c *gin.Context) {
	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}

	report, err := h.svc.DailyReport(c.Request.Context(), ref, filterFrom(c))
	if err != nil {
		h.fail(c, "daily report", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Excel streams the daily report and contract panel as an xlsx attachment.
func (h *ReportHandler) Excel(c *gin.Context) {
	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}
	f := filterFrom(c)

	report, err := h.svc.DailyReport(c.Request.Context(), ref, f)
	if err != nil {
		h.fail(c, "daily report", err)
		return
	}
	panel, err := h.svc.Dashboard(c.Request.Context(), ref, f)
	if err != nil {
		h.fail(c, "dashboard", err)
		return
	}

	data, err := export.DailyWorkbook(report, &panel)
	if err != nil {
		h.fail(c, "workbook", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="Relatorio_%s.xlsx"`, ref.String()))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *ReportHandler) referenceDate(c *gin.Context) (models.Date, bool) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return h.svc.Yesterday(), true
	}

	d, err := ParseQueryDate(raw)
	if err != nil {
		h.logger.Warn("invalid date parameter", zap.String("date", raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Date{}, false
	}
	return d, true
}

func (h *ReportHandler) fail(c *gin.Context, what string, err error) {
	if errors.Is(err, records.ErrSchema) {
		h.logger.Error("data source schema mismatch", zap.String("operation", what), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("failed building "+what, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build " + what})
}

// ParseQueryDate accepts ISO (2006-01-02) and Brazilian (02/01/2006) day formats.
func ParseQueryDate(raw string) (models.Date, error) {
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return models.DateOf(t), nil
		}
	}
	return models.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or DD/MM/YYYY", raw)
}

// filterFrom reads repeated or comma separated area and tag parameters.
func filterFrom(c *gin.Context) models.Filter {
	return models.Filter{
		Areas: splitParams(c.QueryArray("area")),
		Tags:  splitParams(c.QueryArray("tag")),
	}
}

func splitParams(values []string) []string {
	parts := lo.FlatMap(values, func(v string, _ int) []string { return strings.Split(v, ",") })
	parts = lo.Map(parts, func(p string, _ int) string { return strings.TrimSpace(p) })
	out := lo.Uniq(lo.Compact(parts))
	if len(out) == 0 {
		return nil
	}
	return out
}
