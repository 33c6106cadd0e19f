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

// unitService handles unit-related business logic.
type unitService struct {
	db *gorm.DB
}

// NewUnitService creates a new UnitServicer.
func NewUnitService(db *gorm.DB) UnitServicer {
	return &unitService{db: db}
}

// CreateUnit creates a unit owned by the realtor.
func (s *unitService) CreateUnit(ctx context.Context, realtorID string, input UnitInput) (*models.Unit, error) {
	identifier := strings.TrimSpace(input.UnitIdentifier)
	if identifier == "" {
		return nil, apperrors.Validation("unit identifier is required")
	}
	if input.Bedrooms < 0 || input.Bathrooms < 0 {
		return nil, apperrors.Validation("bedrooms and bathrooms cannot be negative")
	}

	db := s.db.WithContext(ctx)
	if err := requireRealtor(db, realtorID); err != nil {
		return nil, err
	}

	unit := &models.Unit{
		RealtorID:      realtorID,
		UnitIdentifier: identifier,
		Address:        strings.TrimSpace(input.Address),
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
	}
	if err := db.Create(unit).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	return unit, nil
}

var unitSortFields = pagination.SortFields{
	"unit_identifier": "unit_identifier",
	"created_at":      "created_at",
}

// GetRealtorUnits retrieves a paginated list of the realtor's units.
func (s *unitService) GetRealtorUnits(ctx context.Context, realtorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Unit], error) {
	page.Defaults()
	order, err := page.Order(unitSortFields, "unit_identifier ASC")
	if err != nil {
		return nil, err
	}

	var totalItems int64
	base := s.db.WithContext(ctx).Model(&models.Unit{}).Where("realtor_id = ?", realtorID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	var units []models.Unit
	if err := base.Order(order).Scopes(pagination.Paginate(page)).Find(&units).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	result := pagination.NewPageResponse(units, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetUnitByID retrieves a unit owned by the realtor.
func (s *unitService) GetUnitByID(ctx context.Context, realtorID, unitID string) (*models.Unit, error) {
	var unit models.Unit
	if err := s.db.WithContext(ctx).Where("id = ? AND realtor_id = ?", unitID, realtorID).First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnitNotFound
		}
		return nil, apperrors.Persistence(err)
	}
	return &unit, nil
}
