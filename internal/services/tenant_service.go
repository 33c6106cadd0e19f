package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
	"rentwise/internal/pagination"
)

// tenantService handles tenant-related business logic. A tenant belongs to a
// realtor only through the leases that realtor owns.
type tenantService struct {
	db     *gorm.DB
	leases LeaseServicer
}

// NewTenantService creates a new TenantServicer.
func NewTenantService(db *gorm.DB, leases LeaseServicer) TenantServicer {
	return &tenantService{db: db, leases: leases}
}

// CreateTenant creates a tenant and attaches it to a lease in one transaction.
// With leaseID the tenant joins that existing lease; otherwise a new lease is
// created from leaseInput together with its payment schedule.
func (s *tenantService) CreateTenant(ctx context.Context, realtorID string, input TenantInput, leaseID *string, leaseInput *LeaseInput) (*TenantWithLease, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if input.FirstName == "" || input.LastName == "" {
		return nil, apperrors.Validation("tenant first and last name are required")
	}
	if leaseID == nil && leaseInput == nil {
		return nil, apperrors.Validation("either an existing lease or new lease details are required")
	}

	tenant := &models.Tenant{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Notes:     input.Notes,
	}

	result := &TenantWithLease{Tenant: tenant}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing *models.Lease
		if leaseID != nil {
			var lease models.Lease
			if err := tx.Where("id = ? AND realtor_id = ?", *leaseID, realtorID).First(&lease).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.ErrLeaseNotFound
				}
				return apperrors.Persistence(err)
			}
			existing = &lease
		}

		if err := tx.Create(tenant).Error; err != nil {
			return apperrors.Persistence(err)
		}

		if existing != nil {
			if err := newLeaseStore(tx).LinkTenant(ctx, existing, tenant); err != nil {
				return err
			}
			result.Lease = existing
			return nil
		}

		created, err := s.leases.CreateLeaseForTenantTx(ctx, tx, tenant, *leaseInput, realtorID)
		if err != nil {
			return err
		}
		result.Lease = created.Lease
		result.Schedule = created.Schedule
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

var tenantSortFields = pagination.SortFields{
	"last_name":  "tenants.last_name",
	"created_at": "tenants.created_at",
}

// GetRealtorTenants retrieves the realtor's tenants, newest first, each with
// the realtor's leases it is on.
func (s *tenantService) GetRealtorTenants(ctx context.Context, realtorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Tenant], error) {
	page.Defaults()
	order, err := page.Order(tenantSortFields, "tenants.created_at DESC")
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var totalItems int64
	if err := ownedTenants(db, realtorID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	var tenants []models.Tenant
	if err := ownedTenants(db, realtorID).
		Preload("Leases", "realtor_id = ?", realtorID).
		Order(order).
		Scopes(pagination.Paginate(page)).
		Find(&tenants).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	result := pagination.NewPageResponse(tenants, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTenantByID retrieves a tenant visible to the realtor.
func (s *tenantService) GetTenantByID(ctx context.Context, realtorID, tenantID string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := ownedTenants(s.db.WithContext(ctx), realtorID).
		Preload("Leases", "realtor_id = ?", realtorID).
		Where("tenants.id = ?", tenantID).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, apperrors.Persistence(err)
	}
	return &tenant, nil
}

// UpdateTenant updates a tenant visible to the realtor.
func (s *tenantService) UpdateTenant(ctx context.Context, realtorID, tenantID string, fields TenantUpdateFields) (*models.Tenant, error) {
	tenant, err := s.GetTenantByID(ctx, realtorID, tenantID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.FirstName != nil {
		if strings.TrimSpace(*fields.FirstName) == "" {
			return nil, apperrors.Validation("first name cannot be empty")
		}
		updates["first_name"] = strings.TrimSpace(*fields.FirstName)
	}
	if fields.LastName != nil {
		if strings.TrimSpace(*fields.LastName) == "" {
			return nil, apperrors.Validation("last name cannot be empty")
		}
		updates["last_name"] = strings.TrimSpace(*fields.LastName)
	}
	if fields.Email != nil {
		updates["email"] = strings.TrimSpace(*fields.Email)
	}
	if fields.Phone != nil {
		updates["phone"] = strings.TrimSpace(*fields.Phone)
	}
	if fields.Notes != nil {
		updates["notes"] = *fields.Notes
	}

	if len(updates) == 0 {
		return tenant, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Tenant{}).Where("id = ?", tenant.ID).Updates(updates).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	return s.GetTenantByID(ctx, realtorID, tenantID)
}

// DeleteTenant disconnects the tenant from every lease and deletes it. Leases
// owned by other realtors lose the tenant too.
func (s *tenantService) DeleteTenant(ctx context.Context, realtorID, tenantID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := ownedTenants(tx, realtorID).Where("tenants.id = ?", tenantID).First(&tenant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTenantNotFound
			}
			return apperrors.Persistence(err)
		}

		if err := tx.Model(&tenant).Association("Leases").Clear(); err != nil {
			return apperrors.Persistence(err)
		}
		if err := tx.Delete(&tenant).Error; err != nil {
			return apperrors.Persistence(err)
		}
		return nil
	})
}
