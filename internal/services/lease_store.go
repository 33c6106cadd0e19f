package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
	"rentwise/internal/schedule"
)

// entryBatchSize bounds the rows per INSERT when writing a schedule.
const entryBatchSize = 100

// leaseStore persists leases and their schedules. It is bound to a single
// *gorm.DB, which inside a transaction is the transaction handle, so every
// write it performs commits or rolls back together.
type leaseStore struct {
	db *gorm.DB
}

func newLeaseStore(db *gorm.DB) *leaseStore {
	return &leaseStore{db: db}
}

// CreateLease inserts the lease row only. Tenants are linked with LinkTenant.
func (s *leaseStore) CreateLease(ctx context.Context, lease *models.Lease) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(lease).Error; err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

// LinkTenant adds tenant to the lease's tenants.
func (s *leaseStore) LinkTenant(ctx context.Context, lease *models.Lease, tenant *models.Tenant) error {
	if err := s.db.WithContext(ctx).Model(lease).Association("Tenants").Append(tenant); err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

// CreatePaymentEntries writes the generated entries for leaseID and returns
// the stored rows in due-date order.
func (s *leaseStore) CreatePaymentEntries(ctx context.Context, leaseID string, entries []schedule.Entry) ([]models.PaymentScheduleEntry, error) {
	if len(entries) == 0 {
		return []models.PaymentScheduleEntry{}, nil
	}

	rows := make([]models.PaymentScheduleEntry, len(entries))
	for i, e := range entries {
		rows[i] = e.Model(leaseID)
	}

	if err := s.db.WithContext(ctx).CreateInBatches(&rows, entryBatchSize).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return rows, nil
}

// CountPaymentEntries returns how many entries the lease has.
func (s *leaseStore) CountPaymentEntries(ctx context.Context, leaseID string) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.PaymentScheduleEntry{}).
		Where("lease_id = ?", leaseID).Count(&n).Error; err != nil {
		return 0, apperrors.Persistence(err)
	}
	return int(n), nil
}

// DeleteLease removes the lease in two phases: its schedule entries and tenant
// links first, then the lease row itself.
func (s *leaseStore) DeleteLease(ctx context.Context, lease *models.Lease) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("lease_id = ?", lease.ID).Delete(&models.PaymentScheduleEntry{}).Error; err != nil {
		return apperrors.Persistence(err)
	}
	if err := db.Model(lease).Association("Tenants").Clear(); err != nil {
		return apperrors.Persistence(err)
	}
	if err := db.Delete(lease).Error; err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}
