// Package period maps calendar dates to the 16th-to-15th accounting cycle used for contractual measurement.
package period

import (
	"fmt"
	"time"

	"github.com/hxtubes/hxreport/internal/domain/models"
)

const (
	startDay = 16
	endDay   = 15
)

// Month names are fixed so labels do not depend on the host locale.
var monthNames = map[time.Month]string{
	time.January:   "JANEIRO",
	time.February:  "FEVEREIRO",
	time.March:     "MARÇO",
	time.April:     "ABRIL",
	time.May:       "MAIO",
	time.June:      "JUNHO",
	time.July:      "JULHO",
	time.August:    "AGOSTO",
	time.September: "SETEMBRO",
	time.October:   "OUTUBRO",
	time.November:  "NOVEMBRO",
	time.December:  "DEZEMBRO",
}

// For returns the cycle enclosing ref. Days from the 16th on belong to the cycle closing next month.
func For(ref time.Time) models.FiscalPeriod {
	return Of(models.DateOf(ref))
}

// Of is For on a calendar day. An unknown date yields the zero period.
func Of(d models.Date) models.FiscalPeriod {
	if !d.Known() {
		return models.FiscalPeriod{}
	}

	var start, end models.Date
	if d.Day() >= startDay {
		start = models.NewDate(d.Year(), d.Month(), startDay)
		end = models.NewDate(d.Year(), d.Month()+1, endDay)
	} else {
		start = models.NewDate(d.Year(), d.Month()-1, startDay)
		end = models.NewDate(d.Year(), d.Month(), endDay)
	}

	return models.FiscalPeriod{
		Start: start,
		End:   end,
		Label: Label(end),
	}
}

// Label names a cycle after its closing month, e.g. "JANEIRO/2026".
func Label(end models.Date) string {
	return fmt.Sprintf("%s/%d", monthNames[end.Month()], end.Year())
}

// Next returns the cycle starting the day after p ends.
func Next(p models.FiscalPeriod) models.FiscalPeriod {
	return Of(p.End.AddDays(1))
}

// Previous returns the cycle ending the day before p starts.
func Previous(p models.FiscalPeriod) models.FiscalPeriod {
	return Of(p.Start.AddDays(-1))
}
