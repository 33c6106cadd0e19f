package models

import (
	"time"

	"rentwise/internal/uuid"

	"gorm.io/gorm"
)

// PaymentStatus is the state of one scheduled rent payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusLate      PaymentStatus = "late"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// Allowed status changes. overdue has no outgoing transition.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusLate, PaymentStatusCancelled, PaymentStatusRejected},
	PaymentStatusLate:    {PaymentStatusOverdue, PaymentStatusCancelled, PaymentStatusRejected},
}

// Valid reports whether s is a recognized payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusLate,
		PaymentStatusOverdue, PaymentStatusCancelled, PaymentStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether an entry may move from s to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s is a settled state: paid, cancelled or rejected.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusCancelled, PaymentStatusRejected:
		return true
	}
	return false
}

// PaymentScheduleEntry is one expected rent payment of a lease. Entries are
// owned by their lease and are never soft-deleted: removing a lease removes
// its entries first.
type PaymentScheduleEntry struct {
	ID         string        `gorm:"type:uuid;primaryKey" json:"id"`
	LeaseID    string        `gorm:"type:uuid;not null;uniqueIndex:uq_payment_entries_lease_due" json:"lease_id"`
	DueDate    time.Time     `gorm:"type:date;not null;uniqueIndex:uq_payment_entries_lease_due;index" json:"due_date"`
	AmountDue  int64         `gorm:"type:bigint;not null" json:"amount_due"`
	Prorated   bool          `gorm:"not null;default:false" json:"prorated"`
	Status     PaymentStatus `gorm:"not null;default:'pending';index" json:"status"`
	PaidOn     *time.Time    `gorm:"type:date" json:"paid_on,omitempty"`
	AmountPaid *int64        `gorm:"type:bigint" json:"amount_paid,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PaymentScheduleEntry) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
