package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
	"rentwise/internal/schedule"
)

// paymentService handles payment schedule entries after their lease is created.
type paymentService struct {
	db           *gorm.DB
	lateAfter    int
	overdueAfter int
}

// NewPaymentService creates a new PaymentServicer. An unpaid entry turns late
// lateAfterDays days after its due date and overdue overdueAfterDays days after it.
func NewPaymentService(db *gorm.DB, lateAfterDays, overdueAfterDays int) PaymentServicer {
	return &paymentService{db: db, lateAfter: lateAfterDays, overdueAfter: overdueAfterDays}
}

// ownedEntries scopes an entry query to entries of live leases owned by the realtor.
func ownedEntries(db *gorm.DB, realtorID string) *gorm.DB {
	return db.Model(&models.PaymentScheduleEntry{}).
		Joins("JOIN leases ON leases.id = payment_schedule_entries.lease_id").
		Where("leases.realtor_id = ? AND leases.deleted_at IS NULL", realtorID)
}

func (s *paymentService) getOwnedEntry(db *gorm.DB, realtorID, entryID string) (*models.PaymentScheduleEntry, error) {
	var entry models.PaymentScheduleEntry
	if err := ownedEntries(db, realtorID).
		Where("payment_schedule_entries.id = ?", entryID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentEntryNotFound
		}
		return nil, apperrors.Persistence(err)
	}
	return &entry, nil
}

// RecordPayment marks a pending entry as paid. amountPaid defaults to the
// amount due.
func (s *paymentService) RecordPayment(ctx context.Context, realtorID, entryID string, paidOn time.Time, amountPaid *int64) (*models.PaymentScheduleEntry, error) {
	if paidOn.IsZero() {
		return nil, apperrors.Validation("payment date is required")
	}
	if amountPaid != nil && *amountPaid <= 0 {
		return nil, apperrors.Validation("amount paid must be greater than zero")
	}

	var entry *models.PaymentScheduleEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.getOwnedEntry(tx, realtorID, entryID)
		if err != nil {
			return err
		}
		if !entry.Status.CanTransitionTo(models.PaymentStatusPaid) {
			return apperrors.WithMessage(apperrors.ErrInvalidPaymentTransition,
				fmt.Sprintf("cannot record a payment on a %s entry", entry.Status))
		}

		paid := entry.AmountDue
		if amountPaid != nil {
			paid = *amountPaid
		}
		day := schedule.DateOnly(paidOn)

		if err := tx.Model(&models.PaymentScheduleEntry{}).Where("id = ?", entry.ID).Updates(map[string]interface{}{
			"status":      models.PaymentStatusPaid,
			"paid_on":     day,
			"amount_paid": paid,
		}).Error; err != nil {
			return apperrors.Persistence(err)
		}

		entry.Status = models.PaymentStatusPaid
		entry.PaidOn = &day
		entry.AmountPaid = &paid
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// UpdateEntryStatus applies a manual status change following the entry state
// machine. Payments go through RecordPayment instead.
func (s *paymentService) UpdateEntryStatus(ctx context.Context, realtorID, entryID string, status models.PaymentStatus) (*models.PaymentScheduleEntry, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("unknown payment status")
	}
	if status == models.PaymentStatusPaid {
		return nil, apperrors.Validation("use the record payment endpoint to mark an entry as paid")
	}

	var entry *models.PaymentScheduleEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.getOwnedEntry(tx, realtorID, entryID)
		if err != nil {
			return err
		}
		if !entry.Status.CanTransitionTo(status) {
			return apperrors.WithMessage(apperrors.ErrInvalidPaymentTransition,
				fmt.Sprintf("entry cannot move from %s to %s", entry.Status, status))
		}

		if err := tx.Model(&models.PaymentScheduleEntry{}).Where("id = ?", entry.ID).
			Update("status", status).Error; err != nil {
			return apperrors.Persistence(err)
		}
		entry.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// GetPaymentsInRange returns the realtor's entries due within [From, To],
// ordered by due date.
func (s *paymentService) GetPaymentsInRange(ctx context.Context, realtorID string, filter PaymentFilter) ([]models.PaymentScheduleEntry, error) {
	if filter.From.IsZero() || filter.To.IsZero() {
		return nil, apperrors.Validation("from and to dates are required")
	}
	from := schedule.DateOnly(filter.From)
	to := schedule.DateOnly(filter.To)
	if to.Before(from) {
		return nil, apperrors.Validation("to date must not precede from date")
	}

	query := ownedEntries(s.db.WithContext(ctx), realtorID).
		Where("payment_schedule_entries.due_date >= ? AND payment_schedule_entries.due_date <= ?", from, to)
	if filter.Status != nil {
		query = query.Where("payment_schedule_entries.status = ?", *filter.Status)
	}
	if filter.LeaseID != nil {
		query = query.Where("payment_schedule_entries.lease_id = ?", *filter.LeaseID)
	}

	entries := []models.PaymentScheduleEntry{}
	if err := query.Order("payment_schedule_entries.due_date ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return entries, nil
}

// ReconcileStatuses moves unpaid entries forward in time: pending entries past
// the late threshold become late, then late entries past the overdue
// threshold become overdue. Both steps run in one transaction.
func (s *paymentService) ReconcileStatuses(ctx context.Context, asOf time.Time) (*ReconcileResult, error) {
	day := schedule.DateOnly(asOf)
	lateCutoff := day.AddDate(0, 0, -s.lateAfter)
	overdueCutoff := day.AddDate(0, 0, -s.overdueAfter)

	result := &ReconcileResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		late := tx.Model(&models.PaymentScheduleEntry{}).
			Where("status = ? AND due_date < ?", models.PaymentStatusPending, lateCutoff).
			Update("status", models.PaymentStatusLate)
		if late.Error != nil {
			return apperrors.Persistence(late.Error)
		}
		result.MarkedLate = late.RowsAffected

		overdue := tx.Model(&models.PaymentScheduleEntry{}).
			Where("status = ? AND due_date < ?", models.PaymentStatusLate, overdueCutoff).
			Update("status", models.PaymentStatusOverdue)
		if overdue.Error != nil {
			return apperrors.Persistence(overdue.Error)
		}
		result.MarkedOverdue = overdue.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
