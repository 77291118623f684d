// Package export renders reports as xlsx workbooks.
package export

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/hxtubes/hxreport/internal/domain/kpi"
	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/internal/service/reporting"
)

// Sheet names of the generated workbook.
const (
	DailySheet = "Relatorio Diario"
	PanelSheet = "Painel"
)

const (
	colorOnTarget    = "C6EFCE"
	colorBelowTarget = "FFC7CE"
	colorHeader      = "E0E0E0"
	colorSection     = "D9E1F2"
)

var (
	shiftHeaders = []string{"Turno", "Realizado", "Meta", "Desvio", "Status", "Observacoes"}
	panelHeaders = []string{
		"Tipo", "Area", "Meta", "Liberado", "Executado", "Meta Operacional",
		"% Liberado", "% Produtividade", "Pendente Execucao", "% Pendente Execucao",
		"Pendente Liberacao", "% Pendente Liberacao",
	}
)

type styles struct {
	title   int
	header  int
	section int
	onTgt   int
	below   int
	percent int
}

// sheetWriter appends rows to one sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) write(values ...interface{}) int {
	w.row++
	if w.err != nil {
		return w.row
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return w.row
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
	return w.row
}

func (w *sheetWriter) style(row, fromCol, toCol, styleID int) {
	if w.err != nil {
		return
	}
	from, _ := excelize.CoordinatesToCellName(fromCol, row)
	to, _ := excelize.CoordinatesToCellName(toCol, row)
	w.err = w.f.SetCellStyle(w.sheet, from, to, styleID)
}

func (w *sheetWriter) skip() {
	w.row++
}

// DailyWorkbook renders the daily report and, when panel is not nil, the contract panel.
func DailyWorkbook(report models.DailyReport, panel *models.Dashboard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DailySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeDaily(f, st, report); err != nil {
		return nil, fmt.Errorf("write daily sheet: %w", err)
	}

	if panel != nil {
		if _, err := f.NewSheet(PanelSheet); err != nil {
			return nil, fmt.Errorf("create panel sheet: %w", err)
		}
		if err := writePanel(f, st, *panel); err != nil {
			return nil, fmt.Errorf("write panel sheet: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styles, error) {
	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true, Size: 14}},
		{
			Font:   &excelize.Font{Bold: true},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
			Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
		},
		{Font: &excelize.Font{Bold: true, Size: 12}, Fill: excelize.Fill{Type: "pattern", Color: []string{colorSection}, Pattern: 1}},
		{Fill: excelize.Fill{Type: "pattern", Color: []string{colorOnTarget}, Pattern: 1}},
		{Fill: excelize.Fill{Type: "pattern", Color: []string{colorBelowTarget}, Pattern: 1}},
		{NumFmt: 10},
	}

	ids := make([]int, len(defs))
	for i, def := range defs {
		id, err := f.NewStyle(def)
		if err != nil {
			return styles{}, fmt.Errorf("create style: %w", err)
		}
		ids[i] = id
	}
	return styles{title: ids[0], header: ids[1], section: ids[2], onTgt: ids[3], below: ids[4], percent: ids[5]}, nil
}

func writeDaily(f *excelize.File, st styles, report models.DailyReport) error {
	w := &sheetWriter{f: f, sheet: DailySheet}

	title := w.write("Relatorio Diario de Producao")
	w.style(title, 1, 1, st.title)
	w.write("Data de Referencia", report.Date.Format("02/01/2006"))
	w.write("Ciclo", report.Period.Label)
	w.skip()

	if report.Empty() {
		w.write(reporting.EmptyDayMessage)
		return w.err
	}

	for _, section := range report.Sections {
		row := w.write(section.MaintenanceType)
		w.style(row, 1, len(shiftHeaders), st.section)

		for _, eq := range section.Equipment {
			p := eq.Progress
			w.write(eq.EquipmentTag, fmt.Sprintf("Meta do turno: %.0f", eq.ShiftTarget), eq.MaintStatus)
			stats := w.write(
				fmt.Sprintf("Capacidade: %.0f | Acumulado: %.0f | Pendente: %.0f | Progresso: %.1f%%",
					p.Capacity, p.CumulativeExecuted, p.Pending, p.CompletionPercent),
				kpi.ProgressFraction(p.CompletionPercent),
			)
			w.style(stats, 2, 2, st.percent)

			header := w.write(lo.ToAnySlice(shiftHeaders)...)
			w.style(header, 1, len(shiftHeaders), st.header)

			for _, s := range eq.Shifts {
				r := w.write(s.ShiftName, s.Realized, s.Target, s.Deviation, reporting.StatusLabel(s.Status), s.Notes)
				fill := st.below
				if s.Status == models.OnTarget {
					fill = st.onTgt
				}
				w.style(r, 5, 5, fill)
			}
			w.skip()
		}
	}

	if w.err == nil {
		w.err = f.SetColWidth(DailySheet, "A", "A", 22)
	}
	if w.err == nil {
		w.err = f.SetColWidth(DailySheet, "B", "E", 16)
	}
	if w.err == nil {
		w.err = f.SetColWidth(DailySheet, "F", "F", 40)
	}
	return w.err
}

func writePanel(f *excelize.File, st styles, panel models.Dashboard) error {
	w := &sheetWriter{f: f, sheet: PanelSheet}

	title := w.write("Painel Contratual", panel.Period.Label)
	w.style(title, 1, 1, st.title)
	w.skip()

	header := w.write(lo.ToAnySlice(panelHeaders)...)
	w.style(header, 1, len(panelHeaders), st.header)

	for _, tp := range panel.Types {
		for _, s := range tp.Areas {
			w.write(
				s.MaintenanceType, s.Area, s.Goal, s.Released, s.Executed, s.OperationalTarget,
				s.PercentReleased, s.PercentProductivity, s.PendingExecution, s.PercentPendingExecution,
				s.PendingRelease, s.PercentPendingRelease,
			)
		}
		t := tp.Total
		total := w.write(
			tp.MaintenanceType, "Total", t.Goal, t.Released, t.Executed, t.OperationalTarget,
			t.PercentReleased, t.PercentProductivity, t.PendingExecution, t.PercentPendingExecution,
			t.PendingRelease, t.PercentPendingRelease,
		)
		w.style(total, 1, len(panelHeaders), st.section)
	}

	if w.err == nil {
		w.err = f.SetPanes(PanelSheet, &excelize.Panes{Freeze: true, YSplit: 3, TopLeftCell: "A4", ActivePane: "bottomLeft"})
	}
	if w.err == nil {
		w.err = f.SetColWidth(PanelSheet, "A", "L", 18)
	}
	return w.err
}
