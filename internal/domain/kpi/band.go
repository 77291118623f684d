package kpi

import "github.com/hxtubes/hxreport/internal/domain/models"

// Banding thresholds, in percent.
const (
	GreenFrom      = 90.0
	YellowFrom     = 70.0
	PendingRedFrom = 10.0
)

// HigherIsBetter bands production-like ratios: green from 90, yellow from 70, red below.
func HigherIsBetter(pct float64) models.Band {
	switch {
	case pct >= GreenFrom:
		return models.BandGreen
	case pct >= YellowFrom:
		return models.BandYellow
	default:
		return models.BandRed
	}
}

// LowerIsBetter bands pending ratios. There is no yellow band: below 10 is green, anything else red.
func LowerIsBetter(pct float64) models.Band {
	if pct < PendingRedFrom {
		return models.BandGreen
	}
	return models.BandRed
}

// ratio returns num/den*100, or 0 when den is not positive.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * 100
}
