package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DateLayout is the canonical textual form of a calendar day.
const DateLayout = "2006-01-02"

// UnknownDate is the sentinel emitted for absent or unparseable dates.
const UnknownDate = "unknown"

// Date is a calendar day without time of day. The zero value is the unknown date.
type Date struct {
	t     time.Time
	valid bool
}

// NewDate builds a known date. Out-of-range month/day values are normalized the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), valid: true}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// Known reports whether the date carries a real calendar day.
func (d Date) Known() bool { return d.valid }

// Time returns midnight UTC of the day, or the zero time when unknown.
func (d Date) Time() time.Time { return d.t }

func (d Date) Year() int { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int { return d.t.Day() }

// AddDays shifts a known date; unknown stays unknown.
func (d Date) AddDays(n int) Date {
	if !d.valid {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n), valid: true}
}

// Equal is false whenever either side is unknown.
func (d Date) Equal(o Date) bool {
	return d.valid && o.valid && d.t.Equal(o.t)
}

func (d Date) Before(o Date) bool {
	return d.valid && o.valid && d.t.Before(o.t)
}

func (d Date) After(o Date) bool {
	return d.valid && o.valid && d.t.After(o.t)
}

// Format renders a known date with layout and returns UnknownDate otherwise.
func (d Date) Format(layout string) string {
	if !d.valid {
		return UnknownDate
	}
	return d.t.Format(layout)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	if raw == "" || raw == UnknownDate {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return fmt.Errorf("decode date %q: %w", raw, err)
	}
	*d = DateOf(t)
	return nil
}

// MarshalBSONValue stores the day as its canonical string so archived reports stay readable.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.String())
}
