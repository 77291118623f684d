package reporting

import (
	"fmt"
	"strings"

	"github.com/hxtubes/hxreport/internal/domain/models"
)

// Status labels used in the text digest and the workbook.
const (
	LabelOnTarget    = "META BATIDA"
	LabelBelowTarget = "ABAIXO DA META"
	EmptyDayMessage  = "Nenhum apontamento registrado para esta data."
)

// StatusLabel renders a shift status for operators.
func StatusLabel(status models.ShiftStatus) string {
	if status == models.OnTarget {
		return LabelOnTarget
	}
	return LabelBelowTarget
}

// SignedDeviation formats a deviation with an explicit plus sign when positive.
func SignedDeviation(deviation float64) string {
	if deviation > 0 {
		return fmt.Sprintf("+%.0f", deviation)
	}
	return fmt.Sprintf("%.0f", deviation)
}

// FormatSummary renders the daily report as a plain-text digest for messaging.
func FormatSummary(report models.DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Relatorio Diario de Producao*\nData: %s\nCiclo: %s\n",
		report.Date.Format("02/01/2006"), report.Period.Label)

	if report.Empty() {
		b.WriteString("\n" + EmptyDayMessage)
		return b.String()
	}

	for _, section := range report.Sections {
		fmt.Fprintf(&b, "\n*%s*\n", section.MaintenanceType)
		for _, eq := range section.Equipment {
			fmt.Fprintf(&b, "%s (meta do turno %.0f) | Progresso: %.1f%%\n",
				eq.EquipmentTag, eq.ShiftTarget, eq.Progress.CompletionPercent)
			for _, row := range eq.Shifts {
				fmt.Fprintf(&b, "- %s: %.0f/%.0f (%s) %s\n",
					row.ShiftName, row.Realized, row.Target, SignedDeviation(row.Deviation), StatusLabel(row.Status))
				if row.Notes != "" {
					fmt.Fprintf(&b, "  Obs: %s\n", row.Notes)
				}
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
