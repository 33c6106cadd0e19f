// Package schedule generates the rent payment schedule of a lease.
//
// A schedule is a finite, ordered sequence of due dates anchored on the lease
// start date and spaced by the payment frequency. Leases with an end date are
// scheduled through their term, with the final entry prorated when the term
// ends inside a period. Open-ended leases are scheduled a fixed number of
// periods ahead and later extended with Extend.
//
// Generation is pure: the same parameters always produce the same entries, so
// a retried lease creation writes an identical schedule.
package schedule

import (
	"fmt"
	"iter"
	"math/bits"
	"slices"
	"time"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
)

// DefaultHorizon is the number of periods scheduled for an open-ended lease.
const DefaultHorizon = 12

// Limits on a single lease term.
const (
	// MaxTermYears bounds the distance between start and end date.
	MaxTermYears = 99
	// MaxEntries bounds the number of entries a fixed-term schedule may hold.
	MaxEntries = 1200
	// MaxAmount bounds the per-period rent in minor units.
	MaxAmount int64 = 1_000_000_000_000
)

// minStart is the earliest accepted start date.
var minStart = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entry is one generated payment-due record.
type Entry struct {
	// Index is the zero-based period number counted from the start date.
	Index      int
	DueDate    time.Time
	Amount     int64
	Prorated   bool
	PeriodDays int
	Status     models.PaymentStatus
}

// Model converts e into a persistable entry for the given lease.
func (e Entry) Model(leaseID string) models.PaymentScheduleEntry {
	return models.PaymentScheduleEntry{
		LeaseID:   leaseID,
		DueDate:   e.DueDate,
		AmountDue: e.Amount,
		Prorated:  e.Prorated,
		Status:    e.Status,
	}
}

// Params describes the term of a lease. Amount is in minor currency units.
type Params struct {
	Start     time.Time
	End       *time.Time
	Amount    int64
	Frequency models.PaymentFrequency
}

// normalized validates p and returns a copy with DateOnly dates.
func (p Params) normalized() (Params, error) {
	if p.Start.IsZero() {
		return p, apperrors.Validation("start date is required")
	}
	if p.Amount <= 0 {
		return p, apperrors.Validation("amount must be greater than zero")
	}
	if p.Amount > MaxAmount {
		return p, apperrors.Validation(fmt.Sprintf("amount must not exceed %d", MaxAmount))
	}
	if !p.Frequency.Valid() {
		return p, apperrors.Validation(fmt.Sprintf("unsupported payment frequency %q", p.Frequency))
	}

	out := p
	out.Start = DateOnly(p.Start)
	if out.Start.Before(minStart) {
		return p, apperrors.Validation("start date is out of range")
	}
	if p.End != nil {
		end := DateOnly(*p.End)
		if end.Before(out.Start) {
			return p, apperrors.Validation("end date must not precede start date")
		}
		if end.After(out.Start.AddDate(MaxTermYears, 0, 0)) {
			return p, apperrors.Validation(fmt.Sprintf("lease term must not exceed %d years", MaxTermYears))
		}
		// Due dates strictly increase, so the term holds more than
		// MaxEntries entries exactly when entry MaxEntries is still due.
		if due, _ := Step(p.Frequency, out.Start, MaxEntries); !due.After(end) {
			return p, apperrors.Validation(fmt.Sprintf("lease term must not exceed %d payments", MaxEntries))
		}
		out.End = &end
	}
	return out, nil
}

// Generator produces payment schedules.
type Generator struct {
	horizon int
}

// NewGenerator returns a Generator scheduling open-ended leases horizon
// periods ahead. A non-positive horizon selects DefaultHorizon.
func NewGenerator(horizon int) *Generator {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &Generator{horizon: horizon}
}

// Horizon returns the number of periods scheduled ahead for open-ended leases.
func (g *Generator) Horizon() int {
	return g.horizon
}

// Generate returns the full schedule for the given term.
func (g *Generator) Generate(start time.Time, end *time.Time, amount int64, frequency models.PaymentFrequency) ([]Entry, error) {
	seq, err := g.Sequence(Params{Start: start, End: end, Amount: amount, Frequency: frequency})
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// Sequence validates p and returns a lazy iterator over its schedule. The
// iterator is finite and may be ranged over any number of times.
func (g *Generator) Sequence(p Params) (iter.Seq[Entry], error) {
	p, err := p.normalized()
	if err != nil {
		return nil, err
	}

	return func(yield func(Entry) bool) {
		for k := 0; ; k++ {
			if p.End == nil && k >= g.horizon {
				return
			}
			due, _ := Step(p.Frequency, p.Start, k)
			if p.End != nil && due.After(*p.End) {
				return
			}
			if !yield(entryAt(p, k, due)) {
				return
			}
		}
	}, nil
}

// Extend returns the entries an open-ended schedule is missing so that it
// reaches the horizon past asOf. have is the number of entries already
// persisted; the result continues at period index have and matches what a
// longer Generate would have produced. Leases with an end date are fully
// scheduled at creation and never extended.
func (g *Generator) Extend(p Params, have int, asOf time.Time) ([]Entry, error) {
	p, err := p.normalized()
	if err != nil {
		return nil, err
	}
	if p.End != nil {
		return nil, nil
	}
	if have < 0 {
		have = 0
	}

	asOf = DateOnly(asOf)
	var out []Entry
	ahead := 0
	for k := 0; ahead < g.horizon; k++ {
		due, _ := Step(p.Frequency, p.Start, k)
		if due.After(asOf) {
			ahead++
		}
		if k >= have {
			out = append(out, entryAt(p, k, due))
		}
	}
	return out, nil
}

// entryAt builds period k. When the lease ends strictly inside the period the
// amount is prorated over the days actually covered, counting the due date
// and the end date inclusively. An end date that falls on the due date itself
// closes the term on a period boundary and is charged in full.
func entryAt(p Params, k int, due time.Time) Entry {
	next, _ := Step(p.Frequency, p.Start, k+1)
	periodDays := DaysBetween(due, next)

	e := Entry{
		Index:      k,
		DueDate:    due,
		Amount:     p.Amount,
		PeriodDays: periodDays,
		Status:     models.PaymentStatusPending,
	}

	if p.End != nil && due.Before(*p.End) && p.End.Before(next) {
		if covered := DaysBetween(due, *p.End) + 1; covered < periodDays {
			e.Amount = Prorate(p.Amount, covered, periodDays)
			e.Prorated = true
		}
	}
	return e
}

// Prorate returns amount × days / periodDays rounded half-up to the minor unit.
// days must lie in [0, periodDays]; the product is computed in 128 bits.
func Prorate(amount int64, days, periodDays int) int64 {
	if periodDays <= 0 || days >= periodDays {
		return amount
	}
	if amount <= 0 || days <= 0 {
		return 0
	}
	// (2·amount·days + periodDays) / (2·periodDays)
	hi, lo := bits.Mul64(uint64(amount), 2*uint64(days))
	lo, carry := bits.Add64(lo, uint64(periodDays), 0)
	hi += carry
	q, _ := bits.Div64(hi, lo, 2*uint64(periodDays))
	return int64(q)
}
