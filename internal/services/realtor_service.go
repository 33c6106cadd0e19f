package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
)

// minBioLength is the shortest bio accepted on a realtor profile.
const minBioLength = 10

var fieldValidator = validator.New()

// realtorService handles realtor-related business logic.
type realtorService struct {
	db *gorm.DB
}

// NewRealtorService creates a new RealtorServicer.
func NewRealtorService(db *gorm.DB) RealtorServicer {
	return &realtorService{db: db}
}

// CreateRealtor registers a new realtor.
func (s *realtorService) CreateRealtor(ctx context.Context, email, firstName, lastName string) (*models.Realtor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if email == "" || firstName == "" || lastName == "" {
		return nil, apperrors.Validation("email, first name and last name are required")
	}
	if err := fieldValidator.Var(email, "email"); err != nil {
		return nil, apperrors.Validation("email is not valid")
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Realtor{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	realtor := &models.Realtor{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}
	if err := db.Create(realtor).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	return realtor, nil
}

// GetRealtorByID retrieves an active realtor by ID.
func (s *realtorService) GetRealtorByID(ctx context.Context, realtorID string) (*models.Realtor, error) {
	var realtor models.Realtor
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", realtorID, true).First(&realtor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRealtorNotFound
		}
		return nil, apperrors.Persistence(err)
	}
	return &realtor, nil
}

// UpdateProfile updates the realtor's profile. Names cannot be blanked, the
// title must be a known one, the website must be a URL and a bio must be at
// least minBioLength characters. Empty strings clear the optional fields.
func (s *realtorService) UpdateProfile(ctx context.Context, realtorID string, fields RealtorProfileFields) (*models.Realtor, error) {
	realtor, err := s.GetRealtorByID(ctx, realtorID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.FirstName != nil {
		name := strings.TrimSpace(*fields.FirstName)
		if name == "" {
			return nil, apperrors.Validation("first name cannot be empty")
		}
		updates["first_name"] = name
	}
	if fields.LastName != nil {
		name := strings.TrimSpace(*fields.LastName)
		if name == "" {
			return nil, apperrors.Validation("last name cannot be empty")
		}
		updates["last_name"] = name
	}
	if fields.Title != nil {
		if *fields.Title != "" && !fields.Title.Valid() {
			return nil, apperrors.Validation("unknown title")
		}
		updates["title"] = *fields.Title
	}
	if fields.Company != nil {
		updates["company"] = strings.TrimSpace(*fields.Company)
	}
	if fields.Website != nil {
		website := strings.TrimSpace(*fields.Website)
		if website != "" {
			if err := fieldValidator.Var(website, "url"); err != nil {
				return nil, apperrors.Validation("website must be a valid URL")
			}
		}
		updates["website"] = website
	}
	if fields.Bio != nil {
		bio := strings.TrimSpace(*fields.Bio)
		if bio != "" && utf8.RuneCountInString(bio) < minBioLength {
			return nil, apperrors.Validation("bio must be at least 10 characters")
		}
		updates["bio"] = bio
	}

	if len(updates) == 0 {
		return realtor, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Realtor{}).Where("id = ?", realtor.ID).Updates(updates).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}

	return s.GetRealtorByID(ctx, realtorID)
}
