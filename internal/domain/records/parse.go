package records

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hxtubes/hxreport/internal/domain/models"
)

// Accepted date layouts, tried in order. Timestamps are cut to their calendar day.
var dateLayouts = []string{
	models.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseDate returns the unknown date for nil, empty, or unparseable values.
func ParseDate(value any) models.Date {
	switch v := value.(type) {
	case nil:
		return models.Date{}
	case models.Date:
		return v
	case time.Time:
		if v.IsZero() {
			return models.Date{}
		}
		return models.DateOf(v)
	}

	str := strings.TrimSpace(toString(value))
	if str == "" || str == models.UnknownDate {
		return models.Date{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return models.DateOf(t)
		}
	}
	return models.Date{}
}

// ParseNumber converts value to a finite float64. ok is false when the value was absent or not numeric,
// in which case the result is 0.
func ParseNumber(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		return 0, false
	default:
		parsed, err := parseNumericText(toString(v))
		if err != nil {
			return 0, false
		}
		f = parsed
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumericText accepts "1234.5", "1234,5" and "1.234,5".
func parseNumericText(str string) (float64, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	if strings.Contains(str, ",") {
		str = strings.ReplaceAll(str, ".", "")
		str = strings.ReplaceAll(str, ",", ".")
	}
	return strconv.ParseFloat(str, 64)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
