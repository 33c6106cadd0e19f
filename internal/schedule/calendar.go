package schedule

import (
	"time"

	"rentwise/internal/models"
)

// DateOnly truncates t to midnight UTC of its own calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b. Both must be
// DateOnly values.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped adds n calendar months to anchor keeping its day of month.
// When the target month is shorter the result is clamped to its last day, so
// Jan 31 + 1 month is Feb 29 in a leap year and Feb 28 otherwise.
func AddMonthsClamped(anchor time.Time, n int) time.Time {
	y, m, d := anchor.Date()
	total := int(m) - 1 + n
	year := y + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)
	if last := DaysIn(year, month); d > last {
		d = last
	}
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Step returns the due date of period k for a schedule anchored at start.
// Every period is computed from the anchor rather than from the previous due
// date, so a clamp in a short month never drifts later entries.
func Step(frequency models.PaymentFrequency, start time.Time, k int) (time.Time, bool) {
	start = DateOnly(start)
	switch frequency {
	case models.PaymentFrequencyWeekly:
		return start.AddDate(0, 0, 7*k), true
	case models.PaymentFrequencyBiweekly:
		return start.AddDate(0, 0, 14*k), true
	case models.PaymentFrequencyMonthly:
		return AddMonthsClamped(start, k), true
	case models.PaymentFrequencyQuarterly:
		return AddMonthsClamped(start, 3*k), true
	case models.PaymentFrequencyYearly:
		return AddMonthsClamped(start, 12*k), true
	}
	return time.Time{}, false
}
