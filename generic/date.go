package generic

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// =============================================================================
// DATE - Civil calendar day (no clock, no zone)
// =============================================================================

// Date is a calendar day in the proleptic Gregorian calendar.
// Weekdays and arithmetic are always computed through UTC, so there is no
// daylight-saving drift regardless of the host's local zone.
type Date struct {
	cd civil.Date
}

// ISODate is the layout used for keys, JSON and SQL columns.
const ISODate = "2006-01-02"

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{cd: civil.Date{Year: year, Month: month, Day: day}}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date { return Date{cd: civil.DateOf(t)} }

// ParseDate parses a YYYY-MM-DD string. Out-of-range days such as
// 2025-02-30 are rejected.
func ParseDate(s string) (Date, error) {
	cd, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, &InputError{Field: "date", Reason: fmt.Sprintf("malformed date %q", s)}
	}
	return Date{cd: cd}, nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.cd.Before(other.cd) }
func (d Date) After(other Date) bool         { return d.cd.After(other.cd) }
func (d Date) Equal(other Date) bool         { return d.cd == other.cd }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{cd: d.cd.AddDays(n)} }

// Properties
func (d Date) Year() int             { return d.cd.Year }
func (d Date) Month() time.Month     { return d.cd.Month }
func (d Date) Day() int              { return d.cd.Day }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsZero() bool          { return d.cd == civil.Date{} }
func (d Date) IsValid() bool         { return d.cd.IsValid() }
func (d Date) Civil() civil.Date     { return d.cd }
func (d Date) Time() time.Time       { return d.cd.In(time.UTC) }

// IsWeekend reports Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// String returns the ISO form, which is also the HolidaySet key.
func (d Date) String() string { return d.cd.String() }

// BR returns the dd/MM/yyyy form used for chart labels.
func (d Date) BR() string { return d.Time().Format("02/01/2006") }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// CALENDAR
// =============================================================================

// AdvanceOneDay returns the next calendar day, rolling months, years and
// February 29th as the civil calendar does.
func AdvanceOneDay(d Date) Date { return d.AddDays(1) }

// IsBusinessDay reports whether d is Monday-Friday and not in holidays.
func IsBusinessDay(d Date, holidays HolidaySet) bool {
	if d.IsWeekend() {
		return false
	}
	return !holidays.Contains(d)
}

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

func DaysBetween(from, to Date) int { return to.cd.DaysSince(from.cd) }
