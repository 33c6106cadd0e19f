package models

import "time"

// PaymentFrequency governs the period between successive schedule entries.
type PaymentFrequency string

const (
	PaymentFrequencyWeekly    PaymentFrequency = "weekly"
	PaymentFrequencyBiweekly  PaymentFrequency = "biweekly"
	PaymentFrequencyMonthly   PaymentFrequency = "monthly"
	PaymentFrequencyQuarterly PaymentFrequency = "quarterly"
	PaymentFrequencyYearly    PaymentFrequency = "yearly"
)

// PaymentFrequencies lists every supported frequency.
var PaymentFrequencies = []PaymentFrequency{
	PaymentFrequencyWeekly,
	PaymentFrequencyBiweekly,
	PaymentFrequencyMonthly,
	PaymentFrequencyQuarterly,
	PaymentFrequencyYearly,
}

// Valid reports whether f is a recognized frequency.
func (f PaymentFrequency) Valid() bool {
	for _, known := range PaymentFrequencies {
		if f == known {
			return true
		}
	}
	return false
}

// LeaseStatus represents where a lease is in its lifecycle.
type LeaseStatus string

const (
	LeaseStatusPending    LeaseStatus = "pending"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusExpired    LeaseStatus = "expired"
	LeaseStatusTerminated LeaseStatus = "terminated"
)

var leaseTransitions = map[LeaseStatus][]LeaseStatus{
	LeaseStatusPending: {LeaseStatusActive, LeaseStatusTerminated},
	LeaseStatusActive:  {LeaseStatusExpired, LeaseStatusTerminated},
}

// Valid reports whether s is a recognized lease status.
func (s LeaseStatus) Valid() bool {
	switch s {
	case LeaseStatusPending, LeaseStatusActive, LeaseStatusExpired, LeaseStatusTerminated:
		return true
	}
	return false
}

// CanTransitionTo reports whether a lease may move from s to next.
func (s LeaseStatus) CanTransitionTo(next LeaseStatus) bool {
	for _, allowed := range leaseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Lease binds tenants to a unit for a term, with a rent amount and frequency.
// RentalPrice is in minor currency units.
type Lease struct {
	Base
	RealtorID        string           `gorm:"type:uuid;not null;index" json:"realtor_id"`
	UnitID           string           `gorm:"type:uuid;not null;index" json:"unit_id"`
	StartDate        time.Time        `gorm:"type:date;not null" json:"start_date"`
	EndDate          *time.Time       `gorm:"type:date" json:"end_date,omitempty"`
	RentalPrice      int64            `gorm:"type:bigint;not null" json:"rental_price"`
	Currency         string           `gorm:"size:3;not null;default:'USD'" json:"currency"`
	PaymentFrequency PaymentFrequency `gorm:"not null" json:"payment_frequency"`
	Status           LeaseStatus      `gorm:"not null;default:'pending';index" json:"status"`
	Notes            string           `json:"notes,omitempty"`

	Unit           *Unit                  `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Tenants        []Tenant               `gorm:"many2many:lease_tenants;" json:"tenants,omitempty"`
	PaymentEntries []PaymentScheduleEntry `gorm:"foreignKey:LeaseID" json:"-"`
}

// IsOpenEnded reports whether the lease has no end date.
func (l *Lease) IsOpenEnded() bool {
	return l.EndDate == nil
}
