package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
	"rentwise/internal/services"
)

// --- mock realtor service ---

type mockRealtorService struct {
	createRealtorFn  func(email, firstName, lastName string) (*models.Realtor, error)
	getRealtorByIDFn func(realtorID string) (*models.Realtor, error)
	updateProfileFn  func(realtorID string, fields services.RealtorProfileFields) (*models.Realtor, error)
}

var _ services.RealtorServicer = (*mockRealtorService)(nil)

func (m *mockRealtorService) CreateRealtor(_ context.Context, email, firstName, lastName string) (*models.Realtor, error) {
	if m.createRealtorFn != nil {
		return m.createRealtorFn(email, firstName, lastName)
	}
	return &models.Realtor{}, nil
}

func (m *mockRealtorService) GetRealtorByID(_ context.Context, realtorID string) (*models.Realtor, error) {
	if m.getRealtorByIDFn != nil {
		return m.getRealtorByIDFn(realtorID)
	}
	return &models.Realtor{}, nil
}

func (m *mockRealtorService) UpdateProfile(_ context.Context, realtorID string, fields services.RealtorProfileFields) (*models.Realtor, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(realtorID, fields)
	}
	return &models.Realtor{}, nil
}

func setupProfileRouter(handler *ProfileHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectRealtorID(testRealtorID))
	auth.GET("/profile", handler.GetProfile)
	auth.PUT("/profile", handler.UpdateProfile)
	return r
}

func TestProfileHandler_GetProfile(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		realtorSvc := &mockRealtorService{
			getRealtorByIDFn: func(realtorID string) (*models.Realtor, error) {
				return &models.Realtor{Base: models.Base{ID: realtorID}, Email: "agent@example.com"}, nil
			},
		}
		r := setupProfileRouter(NewProfileHandler(realtorSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/profile", "")

		assertStatus(t, rec, http.StatusOK)
		realtor := parseJSON(t, rec)["realtor"].(map[string]interface{})
		if realtor["id"] != testRealtorID {
			t.Errorf("expected %s, got %v", testRealtorID, realtor["id"])
		}
	})

	t.Run("returns 404 for deactivated realtor", func(t *testing.T) {
		realtorSvc := &mockRealtorService{
			getRealtorByIDFn: func(string) (*models.Realtor, error) {
				return nil, apperrors.ErrRealtorNotFound
			},
		}
		r := setupProfileRouter(NewProfileHandler(realtorSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/profile", "")

		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "REALTOR_NOT_FOUND")
	})
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	t.Run("converts title", func(t *testing.T) {
		var got services.RealtorProfileFields
		realtorSvc := &mockRealtorService{
			updateProfileFn: func(_ string, fields services.RealtorProfileFields) (*models.Realtor, error) {
				got = fields
				return &models.Realtor{Title: *fields.Title}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupProfileRouter(NewProfileHandler(realtorSvc, audit))

		rec := doRequest(r, "PUT", "/profile", `{"title":"Dr","website":"https://agent.example.com"}`)

		assertStatus(t, rec, http.StatusOK)
		if got.Title == nil || *got.Title != models.RealtorTitleDr {
			t.Errorf("expected Dr, got %v", got.Title)
		}
		if got.Website == nil || *got.Website != "https://agent.example.com" {
			t.Errorf("expected website, got %v", got.Website)
		}
		if len(audit.calls) != 1 || audit.calls[0].action != "UPDATE_PROFILE" {
			t.Errorf("expected UPDATE_PROFILE audit, got %+v", audit.calls)
		}
	})

	t.Run("returns 400 on unknown title", func(t *testing.T) {
		r := setupProfileRouter(NewProfileHandler(&mockRealtorService{}, &mockAuditService{}))
		rec := doRequest(r, "PUT", "/profile", `{"title":"Lord"}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 400 on invalid website", func(t *testing.T) {
		r := setupProfileRouter(NewProfileHandler(&mockRealtorService{}, &mockAuditService{}))
		rec := doRequest(r, "PUT", "/profile", `{"website":"not a url"}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns service validation error", func(t *testing.T) {
		realtorSvc := &mockRealtorService{
			updateProfileFn: func(string, services.RealtorProfileFields) (*models.Realtor, error) {
				return nil, apperrors.Validation("bio must be at least 10 characters")
			},
		}
		r := setupProfileRouter(NewProfileHandler(realtorSvc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/profile", `{"bio":"short"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})
}
