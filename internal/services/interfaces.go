package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rentwise/internal/models"
	"rentwise/internal/pagination"
)

// RealtorProfileFields holds optional profile updates. Nil fields are left unchanged.
type RealtorProfileFields struct {
	FirstName *string
	LastName  *string
	Title     *models.RealtorTitle
	Company   *string
	Website   *string
	Bio       *string
}

// RealtorServicer defines the contract for realtor-related business logic.
type RealtorServicer interface {
	CreateRealtor(ctx context.Context, email, firstName, lastName string) (*models.Realtor, error)
	GetRealtorByID(ctx context.Context, realtorID string) (*models.Realtor, error)
	UpdateProfile(ctx context.Context, realtorID string, fields RealtorProfileFields) (*models.Realtor, error)
}

// UnitInput carries the fields of a new unit.
type UnitInput struct {
	UnitIdentifier string
	Address        string
	Bedrooms       int
	Bathrooms      int
}

// UnitServicer defines the contract for unit-related business logic.
type UnitServicer interface {
	CreateUnit(ctx context.Context, realtorID string, input UnitInput) (*models.Unit, error)
	GetRealtorUnits(ctx context.Context, realtorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Unit], error)
	GetUnitByID(ctx context.Context, realtorID, unitID string) (*models.Unit, error)
}

// LeaseInput carries the data needed to create a lease and its schedule.
// RentalPrice is in minor currency units.
type LeaseInput struct {
	UnitID           string
	TenantID         string
	StartDate        time.Time
	EndDate          *time.Time
	RentalPrice      int64
	PaymentFrequency models.PaymentFrequency
	Currency         string
	Status           models.LeaseStatus
	Notes            string
}

// LeaseWithSchedule is a newly created lease together with its payment schedule.
type LeaseWithSchedule struct {
	Lease    *models.Lease                 `json:"lease"`
	Schedule []models.PaymentScheduleEntry `json:"schedule"`
}

// LeaseFilter holds optional filter parameters for listing leases.
type LeaseFilter struct {
	Status *models.LeaseStatus
	UnitID *string
}

// LeaseUpdateFields holds optional lease updates. Nil fields are left unchanged.
type LeaseUpdateFields struct {
	Status *models.LeaseStatus
	Notes  *string
}

// LeaseSummary aggregates the payment schedule of a lease as of a given day.
type LeaseSummary struct {
	LeaseID        string     `json:"lease_id"`
	Currency       string     `json:"currency"`
	NextDueDate    *time.Time `json:"next_due_date,omitempty"`
	NextAmountDue  int64      `json:"next_amount_due"`
	TotalScheduled int64      `json:"total_scheduled"`
	TotalPaid      int64      `json:"total_paid"`
	Outstanding    int64      `json:"outstanding"`
	EntryCount     int        `json:"entry_count"`
	PaidCount      int        `json:"paid_count"`
	LateCount      int        `json:"late_count"`
	OverdueCount   int        `json:"overdue_count"`
}

// LeaseServicer defines the contract for lease-related business logic.
type LeaseServicer interface {
	CreateLeaseWithPaymentSchedule(ctx context.Context, input LeaseInput, realtorID string) (*LeaseWithSchedule, error)
	CreateLeaseForTenantTx(ctx context.Context, tx *gorm.DB, tenant *models.Tenant, input LeaseInput, realtorID string) (*LeaseWithSchedule, error)
	GetLeaseByID(ctx context.Context, realtorID, leaseID string) (*models.Lease, error)
	GetRealtorLeases(ctx context.Context, realtorID string, page pagination.PageRequest, filter LeaseFilter) (*pagination.PageResponse[models.Lease], error)
	UpdateLease(ctx context.Context, realtorID, leaseID string, fields LeaseUpdateFields) (*models.Lease, error)
	DeleteLease(ctx context.Context, realtorID, leaseID string) error
	GetLeaseSchedule(ctx context.Context, realtorID, leaseID string) ([]models.PaymentScheduleEntry, error)
	GetLeaseSummary(ctx context.Context, realtorID, leaseID string, asOf time.Time) (*LeaseSummary, error)
	ExtendOpenEndedSchedules(ctx context.Context, asOf time.Time) (int, error)
}

// TenantInput carries the fields of a new tenant.
type TenantInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Notes     string
}

// TenantUpdateFields holds optional tenant updates. Nil fields are left unchanged.
type TenantUpdateFields struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Notes     *string
}

// TenantWithLease is a newly created tenant and the lease it was attached to.
// Schedule is set only when the lease was created alongside the tenant.
type TenantWithLease struct {
	Tenant   *models.Tenant                `json:"tenant"`
	Lease    *models.Lease                 `json:"lease"`
	Schedule []models.PaymentScheduleEntry `json:"schedule,omitempty"`
}

// TenantServicer defines the contract for tenant-related business logic.
type TenantServicer interface {
	CreateTenant(ctx context.Context, realtorID string, input TenantInput, leaseID *string, lease *LeaseInput) (*TenantWithLease, error)
	GetRealtorTenants(ctx context.Context, realtorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Tenant], error)
	GetTenantByID(ctx context.Context, realtorID, tenantID string) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, realtorID, tenantID string, fields TenantUpdateFields) (*models.Tenant, error)
	DeleteTenant(ctx context.Context, realtorID, tenantID string) error
}

// PaymentFilter selects schedule entries for the payment calendar. From and To
// are inclusive due-date bounds.
type PaymentFilter struct {
	From    time.Time
	To      time.Time
	Status  *models.PaymentStatus
	LeaseID *string
}

// ReconcileResult reports how many entries a reconciliation run moved.
type ReconcileResult struct {
	MarkedLate    int64 `json:"marked_late"`
	MarkedOverdue int64 `json:"marked_overdue"`
}

// PaymentServicer defines the contract for payment-schedule entry business logic.
type PaymentServicer interface {
	RecordPayment(ctx context.Context, realtorID, entryID string, paidOn time.Time, amountPaid *int64) (*models.PaymentScheduleEntry, error)
	UpdateEntryStatus(ctx context.Context, realtorID, entryID string, status models.PaymentStatus) (*models.PaymentScheduleEntry, error)
	GetPaymentsInRange(ctx context.Context, realtorID string, filter PaymentFilter) ([]models.PaymentScheduleEntry, error)
	ReconcileStatuses(ctx context.Context, asOf time.Time) (*ReconcileResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(realtorID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	History(ctx context.Context, realtorID, resourceType, resourceID string, limit int) ([]models.AuditLog, error)
}
