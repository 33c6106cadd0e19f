package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rentwise/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		anchor time.Time
		n      int
		want   time.Time
	}{
		{"same day", date(2024, 1, 15), 1, date(2024, 2, 15)},
		{"jan 31 leap year", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"jan 31 common year", date(2023, 1, 31), 1, date(2023, 2, 28)},
		{"anchor restores after clamp", date(2024, 1, 31), 2, date(2024, 3, 31)},
		{"thirty day month", date(2024, 1, 31), 3, date(2024, 4, 30)},
		{"year rollover", date(2024, 11, 30), 3, date(2025, 2, 28)},
		{"leap day yearly", date(2024, 2, 29), 12, date(2025, 2, 28)},
		{"leap day four years", date(2024, 2, 29), 48, date(2028, 2, 29)},
		{"negative months", date(2024, 3, 31), -1, date(2024, 2, 29)},
		{"negative across year", date(2024, 1, 15), -13, date(2022, 12, 15)},
		{"zero", date(2024, 5, 5), 0, date(2024, 5, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthsClamped(tt.anchor, tt.n))
		})
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 28, DaysIn(1900, time.February))
	assert.Equal(t, 29, DaysIn(2000, time.February))
	assert.Equal(t, 31, DaysIn(2024, time.December))
	assert.Equal(t, 30, DaysIn(2024, time.April))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 7, DaysBetween(date(2024, 1, 1), date(2024, 1, 8)))
	assert.Equal(t, 29, DaysBetween(date(2024, 2, 1), date(2024, 3, 1)))
	assert.Equal(t, 0, DaysBetween(date(2024, 2, 1), date(2024, 2, 1)))
	assert.Equal(t, -1, DaysBetween(date(2024, 2, 2), date(2024, 2, 1)))
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 6, 3, 23, 59, 59, 999, time.UTC)
	assert.Equal(t, date(2024, 6, 3), DateOnly(in))
}

func TestStep(t *testing.T) {
	start := date(2024, 1, 31)

	t.Run("weekly", func(t *testing.T) {
		got, ok := Step(models.PaymentFrequencyWeekly, start, 2)
		assert.True(t, ok)
		assert.Equal(t, date(2024, 2, 14), got)
	})

	t.Run("biweekly", func(t *testing.T) {
		got, ok := Step(models.PaymentFrequencyBiweekly, start, 2)
		assert.True(t, ok)
		assert.Equal(t, date(2024, 2, 28), got)
	})

	t.Run("quarterly clamps", func(t *testing.T) {
		got, ok := Step(models.PaymentFrequencyQuarterly, date(2023, 11, 30), 1)
		assert.True(t, ok)
		assert.Equal(t, date(2024, 2, 29), got)
	})

	t.Run("yearly", func(t *testing.T) {
		got, ok := Step(models.PaymentFrequencyYearly, start, 3)
		assert.True(t, ok)
		assert.Equal(t, date(2027, 1, 31), got)
	})

	t.Run("unknown frequency", func(t *testing.T) {
		_, ok := Step(models.PaymentFrequency("daily"), start, 1)
		assert.False(t, ok)
	})
}
