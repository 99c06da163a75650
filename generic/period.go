package generic

// =============================================================================
// PERIOD - Inclusive date range covered by a projection
// =============================================================================

// Period is the closed range [Start, End].
//
// A projection's period runs from its first credited business day to its
// last one; holidays are reported only when they fall inside it.
type Period struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains returns true if d is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every calendar day in the period.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = AdvanceOneDay(current) {
		days = append(days, current)
	}
	return days
}

// BusinessDays counts the days in the period that are business days under
// holidays.
func (p Period) BusinessDays(holidays HolidaySet) int {
	n := 0
	for current := p.Start; current.BeforeOrEqual(p.End); current = AdvanceOneDay(current) {
		if IsBusinessDay(current, holidays) {
			n++
		}
	}
	return n
}

// CalendarDays is the inclusive day count.
func (p Period) CalendarDays() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
