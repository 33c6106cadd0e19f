package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/logger"
	"rentwise/internal/models"
	"rentwise/internal/pagination"
	"rentwise/internal/schedule"
)

// leaseService handles lease-related business logic.
type leaseService struct {
	db        *gorm.DB
	generator *schedule.Generator
	now       func() time.Time
}

// NewLeaseService creates a new LeaseServicer.
func NewLeaseService(db *gorm.DB, generator *schedule.Generator) LeaseServicer {
	if generator == nil {
		generator = schedule.NewGenerator(schedule.DefaultHorizon)
	}
	return &leaseService{db: db, generator: generator, now: time.Now}
}

// CreateLeaseWithPaymentSchedule validates the input, then persists the lease,
// its tenant link and the generated payment schedule in one transaction.
func (s *leaseService) CreateLeaseWithPaymentSchedule(ctx context.Context, input LeaseInput, realtorID string) (*LeaseWithSchedule, error) {
	if strings.TrimSpace(input.TenantID) == "" {
		return nil, apperrors.Validation("tenant is required")
	}
	plan, err := s.plan(input)
	if err != nil {
		return nil, err
	}

	var result *LeaseWithSchedule
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRealtor(tx, realtorID); err != nil {
			return err
		}

		var tenant models.Tenant
		if err := ownedTenants(tx, realtorID).Where("tenants.id = ?", input.TenantID).First(&tenant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTenantNotFound
			}
			return apperrors.Persistence(err)
		}

		created, err := s.persist(ctx, tx, &tenant, input, plan, realtorID)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CreateLeaseForTenantTx creates a lease for a tenant written earlier in the
// caller's transaction. tx must be that transaction.
func (s *leaseService) CreateLeaseForTenantTx(ctx context.Context, tx *gorm.DB, tenant *models.Tenant, input LeaseInput, realtorID string) (*LeaseWithSchedule, error) {
	if tenant == nil || tenant.ID == "" {
		return nil, apperrors.Validation("tenant is required")
	}
	plan, err := s.plan(input)
	if err != nil {
		return nil, err
	}
	if err := requireRealtor(tx, realtorID); err != nil {
		return nil, err
	}
	return s.persist(ctx, tx, tenant, input, plan, realtorID)
}

// leasePlan is a validated lease input with its generated schedule.
type leasePlan struct {
	status   models.LeaseStatus
	currency string
	start    time.Time
	end      *time.Time
	entries  []schedule.Entry
}

// plan validates input and generates the schedule without touching the database.
func (s *leaseService) plan(input LeaseInput) (*leasePlan, error) {
	if strings.TrimSpace(input.UnitID) == "" {
		return nil, apperrors.Validation("unit is required")
	}

	status := input.Status
	if status == "" {
		status = models.LeaseStatusPending
	}
	if status != models.LeaseStatusPending && status != models.LeaseStatusActive {
		return nil, apperrors.Validation("a new lease must be pending or active")
	}

	entries, err := s.generator.Generate(input.StartDate, input.EndDate, input.RentalPrice, input.PaymentFrequency)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}

	p := &leasePlan{
		status:   status,
		currency: currency,
		start:    schedule.DateOnly(input.StartDate),
		entries:  entries,
	}
	if input.EndDate != nil {
		end := schedule.DateOnly(*input.EndDate)
		p.end = &end
	}
	return p, nil
}

// persist writes a planned lease through a leaseStore bound to tx.
func (s *leaseService) persist(ctx context.Context, tx *gorm.DB, tenant *models.Tenant, input LeaseInput, plan *leasePlan, realtorID string) (*LeaseWithSchedule, error) {
	var unit models.Unit
	if err := tx.Where("id = ? AND realtor_id = ?", input.UnitID, realtorID).First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnitNotFound
		}
		return nil, apperrors.Persistence(err)
	}

	lease := &models.Lease{
		RealtorID:        realtorID,
		UnitID:           unit.ID,
		StartDate:        plan.start,
		EndDate:          plan.end,
		RentalPrice:      input.RentalPrice,
		Currency:         plan.currency,
		PaymentFrequency: input.PaymentFrequency,
		Status:           plan.status,
		Notes:            input.Notes,
	}

	store := newLeaseStore(tx)
	if err := store.CreateLease(ctx, lease); err != nil {
		return nil, err
	}
	if err := store.LinkTenant(ctx, lease, tenant); err != nil {
		return nil, err
	}
	rows, err := store.CreatePaymentEntries(ctx, lease.ID, plan.entries)
	if err != nil {
		return nil, err
	}

	lease.Unit = &unit
	lease.Tenants = []models.Tenant{*tenant}

	return &LeaseWithSchedule{Lease: lease, Schedule: rows}, nil
}

// GetLeaseByID retrieves a lease owned by the realtor with its unit and tenants.
func (s *leaseService) GetLeaseByID(ctx context.Context, realtorID, leaseID string) (*models.Lease, error) {
	var lease models.Lease
	err := s.db.WithContext(ctx).
		Preload("Unit").
		Preload("Tenants").
		Where("id = ? AND realtor_id = ?", leaseID, realtorID).
		First(&lease).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLeaseNotFound
		}
		return nil, apperrors.Persistence(err)
	}
	return &lease, nil
}

var leaseSortFields = pagination.SortFields{
	"start_date":   "start_date",
	"rental_price": "rental_price",
	"created_at":   "created_at",
}

// GetRealtorLeases retrieves a paginated, optionally filtered list of the realtor's leases.
func (s *leaseService) GetRealtorLeases(ctx context.Context, realtorID string, page pagination.PageRequest, filter LeaseFilter) (*pagination.PageResponse[models.Lease], error) {
	page.Defaults()
	order, err := page.Order(leaseSortFields, "start_date DESC, created_at DESC")
	if err != nil {
		return nil, err
	}

	base := s.db.WithContext(ctx).Model(&models.Lease{}).Where("realtor_id = ?", realtorID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.UnitID != nil {
		base = base.Where("unit_id = ?", *filter.UnitID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	var leases []models.Lease
	if err := base.Preload("Unit").Preload("Tenants").
		Order(order).
		Scopes(pagination.Paginate(page)).
		Find(&leases).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	result := pagination.NewPageResponse(leases, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateLease applies a status change and/or new notes. Terminating a lease
// cancels its unpaid entries that fall due after today.
func (s *leaseService) UpdateLease(ctx context.Context, realtorID, leaseID string, fields LeaseUpdateFields) (*models.Lease, error) {
	lease, err := s.GetLeaseByID(ctx, realtorID, leaseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Notes != nil {
		updates["notes"] = *fields.Notes
	}

	terminating := false
	if fields.Status != nil && *fields.Status != lease.Status {
		if !fields.Status.Valid() {
			return nil, apperrors.Validation("unknown lease status")
		}
		if !lease.Status.CanTransitionTo(*fields.Status) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidLeaseTransition,
				"lease cannot move from "+string(lease.Status)+" to "+string(*fields.Status))
		}
		updates["status"] = *fields.Status
		terminating = *fields.Status == models.LeaseStatusTerminated
	}

	if len(updates) == 0 {
		return lease, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Lease{}).Where("id = ?", lease.ID).Updates(updates).Error; err != nil {
			return apperrors.Persistence(err)
		}
		if terminating {
			today := schedule.DateOnly(s.now())
			if err := tx.Model(&models.PaymentScheduleEntry{}).
				Where("lease_id = ? AND due_date > ? AND status IN ?", lease.ID, today,
					[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusLate}).
				Update("status", models.PaymentStatusCancelled).Error; err != nil {
				return apperrors.Persistence(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetLeaseByID(ctx, realtorID, leaseID)
}

// DeleteLease removes the lease, its schedule and its tenant links in one transaction.
func (s *leaseService) DeleteLease(ctx context.Context, realtorID, leaseID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lease models.Lease
		if err := tx.Where("id = ? AND realtor_id = ?", leaseID, realtorID).First(&lease).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrLeaseNotFound
			}
			return apperrors.Persistence(err)
		}
		return newLeaseStore(tx).DeleteLease(ctx, &lease)
	})
}

// GetLeaseSchedule returns the lease's entries in due-date order.
func (s *leaseService) GetLeaseSchedule(ctx context.Context, realtorID, leaseID string) ([]models.PaymentScheduleEntry, error) {
	if _, err := s.GetLeaseByID(ctx, realtorID, leaseID); err != nil {
		return nil, err
	}
	return s.entriesFor(ctx, leaseID)
}

func (s *leaseService) entriesFor(ctx context.Context, leaseID string) ([]models.PaymentScheduleEntry, error) {
	entries := []models.PaymentScheduleEntry{}
	if err := s.db.WithContext(ctx).Where("lease_id = ?", leaseID).
		Order("due_date ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return entries, nil
}

// GetLeaseSummary aggregates the schedule as of asOf. Cancelled and rejected
// entries count toward nothing; outstanding is the unpaid amount already due.
func (s *leaseService) GetLeaseSummary(ctx context.Context, realtorID, leaseID string, asOf time.Time) (*LeaseSummary, error) {
	lease, err := s.GetLeaseByID(ctx, realtorID, leaseID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entriesFor(ctx, lease.ID)
	if err != nil {
		return nil, err
	}

	asOf = schedule.DateOnly(asOf)
	summary := &LeaseSummary{LeaseID: lease.ID, Currency: lease.Currency}
	for i := range entries {
		e := &entries[i]
		switch e.Status {
		case models.PaymentStatusCancelled, models.PaymentStatusRejected:
			continue
		case models.PaymentStatusPaid:
			summary.PaidCount++
			if e.AmountPaid != nil {
				summary.TotalPaid += *e.AmountPaid
			} else {
				summary.TotalPaid += e.AmountDue
			}
		case models.PaymentStatusLate:
			summary.LateCount++
		case models.PaymentStatusOverdue:
			summary.OverdueCount++
		}

		summary.EntryCount++
		summary.TotalScheduled += e.AmountDue

		if e.Status == models.PaymentStatusPaid {
			continue
		}
		due := schedule.DateOnly(e.DueDate)
		if !due.After(asOf) {
			summary.Outstanding += e.AmountDue
		} else if summary.NextDueDate == nil {
			summary.NextDueDate = &due
			summary.NextAmountDue = e.AmountDue
		}
	}
	return summary, nil
}

// ExtendOpenEndedSchedules appends entries to every pending or active lease
// without an end date so its schedule reaches the generator horizon past
// asOf. Each lease is extended in its own transaction; a failing lease is
// logged and does not stop the others. It returns the number of entries added.
func (s *leaseService) ExtendOpenEndedSchedules(ctx context.Context, asOf time.Time) (int, error) {
	var leases []models.Lease
	if err := s.db.WithContext(ctx).
		Where("end_date IS NULL AND status IN ?", []models.LeaseStatus{models.LeaseStatusPending, models.LeaseStatusActive}).
		Find(&leases).Error; err != nil {
		return 0, apperrors.Persistence(err)
	}

	added := 0
	var errs []error
	for i := range leases {
		n, err := s.extendLease(ctx, &leases[i], asOf)
		if err != nil {
			logger.Get().Errorw("failed to extend payment schedule",
				"error", err,
				"lease_id", leases[i].ID,
			)
			errs = append(errs, err)
			continue
		}
		added += n
	}

	return added, errors.Join(errs...)
}

func (s *leaseService) extendLease(ctx context.Context, lease *models.Lease, asOf time.Time) (int, error) {
	added := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := newLeaseStore(tx)
		have, err := store.CountPaymentEntries(ctx, lease.ID)
		if err != nil {
			return err
		}

		entries, err := s.generator.Extend(schedule.Params{
			Start:     lease.StartDate,
			End:       lease.EndDate,
			Amount:    lease.RentalPrice,
			Frequency: lease.PaymentFrequency,
		}, have, asOf)
		if err != nil {
			return err
		}

		rows, err := store.CreatePaymentEntries(ctx, lease.ID, entries)
		if err != nil {
			return err
		}
		added = len(rows)
		return nil
	})
	return added, err
}

// requireRealtor returns ErrRealtorNotFound unless realtorID names an existing realtor.
func requireRealtor(db *gorm.DB, realtorID string) error {
	var count int64
	if err := db.Model(&models.Realtor{}).Where("id = ?", realtorID).Count(&count).Error; err != nil {
		return apperrors.Persistence(err)
	}
	if count == 0 {
		return apperrors.ErrRealtorNotFound
	}
	return nil
}

// ownedTenants scopes a tenant query to tenants linked to at least one live
// lease owned by the realtor.
func ownedTenants(db *gorm.DB, realtorID string) *gorm.DB {
	owned := db.Table("lease_tenants").
		Select("lease_tenants.tenant_id").
		Joins("JOIN leases ON leases.id = lease_tenants.lease_id").
		Where("leases.realtor_id = ? AND leases.deleted_at IS NULL", realtorID)
	return db.Model(&models.Tenant{}).Where("tenants.id IN (?)", owned)
}
