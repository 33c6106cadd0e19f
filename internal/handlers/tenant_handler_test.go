package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
	"rentwise/internal/pagination"
	"rentwise/internal/services"
)

// --- mock tenant service ---

type mockTenantService struct {
	createTenantFn      func(realtorID string, input services.TenantInput, leaseID *string, lease *services.LeaseInput) (*services.TenantWithLease, error)
	getRealtorTenantsFn func(realtorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Tenant], error)
	getTenantByIDFn     func(realtorID, tenantID string) (*models.Tenant, error)
	updateTenantFn      func(realtorID, tenantID string, fields services.TenantUpdateFields) (*models.Tenant, error)
	deleteTenantFn      func(realtorID, tenantID string) error
}

var _ services.TenantServicer = (*mockTenantService)(nil)

func (m *mockTenantService) CreateTenant(_ context.Context, realtorID string, input services.TenantInput, leaseID *string, lease *services.LeaseInput) (*services.TenantWithLease, error) {
	if m.createTenantFn != nil {
		return m.createTenantFn(realtorID, input, leaseID, lease)
	}
	return &services.TenantWithLease{Tenant: &models.Tenant{}, Lease: &models.Lease{}}, nil
}

func (m *mockTenantService) GetRealtorTenants(_ context.Context, realtorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Tenant], error) {
	if m.getRealtorTenantsFn != nil {
		return m.getRealtorTenantsFn(realtorID, page)
	}
	resp := pagination.NewPageResponse([]models.Tenant{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTenantService) GetTenantByID(_ context.Context, realtorID, tenantID string) (*models.Tenant, error) {
	if m.getTenantByIDFn != nil {
		return m.getTenantByIDFn(realtorID, tenantID)
	}
	return &models.Tenant{}, nil
}

func (m *mockTenantService) UpdateTenant(_ context.Context, realtorID, tenantID string, fields services.TenantUpdateFields) (*models.Tenant, error) {
	if m.updateTenantFn != nil {
		return m.updateTenantFn(realtorID, tenantID, fields)
	}
	return &models.Tenant{}, nil
}

func (m *mockTenantService) DeleteTenant(_ context.Context, realtorID, tenantID string) error {
	if m.deleteTenantFn != nil {
		return m.deleteTenantFn(realtorID, tenantID)
	}
	return nil
}

func setupTenantRouter(handler *TenantHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectRealtorID(testRealtorID))
	auth.POST("/tenants", handler.CreateTenant)
	auth.GET("/tenants", handler.GetRealtorTenants)
	auth.GET("/tenants/:id", handler.GetTenantByID)
	auth.PUT("/tenants/:id", handler.UpdateTenant)
	auth.DELETE("/tenants/:id", handler.DeleteTenant)
	return r
}

func TestTenantHandler_CreateTenant(t *testing.T) {
	t.Run("joins existing lease", func(t *testing.T) {
		var gotLeaseID *string
		var gotLease *services.LeaseInput
		tenantSvc := &mockTenantService{
			createTenantFn: func(_ string, input services.TenantInput, leaseID *string, lease *services.LeaseInput) (*services.TenantWithLease, error) {
				gotLeaseID, gotLease = leaseID, lease
				return &services.TenantWithLease{
					Tenant: &models.Tenant{Base: models.Base{ID: testTenantID}, FirstName: input.FirstName},
					Lease:  &models.Lease{Base: models.Base{ID: *leaseID}},
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTenantRouter(NewTenantHandler(tenantSvc, audit))

		rec := doRequest(r, "POST", "/tenants",
			`{"first_name":"Ada","last_name":"Lovelace","lease_id":"`+testLeaseID+`"}`)

		assertStatus(t, rec, http.StatusCreated)
		if gotLeaseID == nil || *gotLeaseID != testLeaseID {
			t.Errorf("expected lease id passed, got %v", gotLeaseID)
		}
		if gotLease != nil {
			t.Error("expected no new lease input")
		}
		result := parseJSON(t, rec)
		if result["tenant"].(map[string]interface{})["first_name"] != "Ada" {
			t.Errorf("unexpected tenant: %v", result["tenant"])
		}
		if _, ok := result["schedule"]; ok {
			t.Error("expected schedule omitted when joining an existing lease")
		}
		if len(audit.calls) != 1 || audit.calls[0].action != "CREATE_TENANT" {
			t.Errorf("expected CREATE_TENANT audit, got %+v", audit.calls)
		}
	})

	t.Run("creates new lease", func(t *testing.T) {
		var gotLease *services.LeaseInput
		tenantSvc := &mockTenantService{
			createTenantFn: func(_ string, _ services.TenantInput, _ *string, lease *services.LeaseInput) (*services.TenantWithLease, error) {
				gotLease = lease
				return &services.TenantWithLease{
					Tenant:   &models.Tenant{},
					Lease:    &models.Lease{},
					Schedule: []models.PaymentScheduleEntry{{AmountDue: 7000}, {AmountDue: 3000}},
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTenantRouter(NewTenantHandler(tenantSvc, audit))

		rec := doRequest(r, "POST", "/tenants", `{"first_name":"Ada","last_name":"Lovelace","lease":{
			"unit_id":"`+testUnitID+`","start_date":"2024-01-01","end_date":"2024-01-10",
			"rental_price":7000,"payment_frequency":"weekly"}}`)

		assertStatus(t, rec, http.StatusCreated)
		if gotLease == nil || gotLease.UnitID != testUnitID || gotLease.PaymentFrequency != models.PaymentFrequencyWeekly {
			t.Fatalf("unexpected lease input: %+v", gotLease)
		}
		if gotLease.TenantID != "" {
			t.Errorf("expected tenant id left to the service, got %q", gotLease.TenantID)
		}
		if len(parseJSON(t, rec)["schedule"].([]interface{})) != 2 {
			t.Error("expected 2 schedule entries")
		}
		if len(audit.calls) != 2 || audit.calls[1].action != "CREATE_LEASE" {
			t.Errorf("expected CREATE_TENANT and CREATE_LEASE audits, got %+v", audit.calls)
		}
	})

	t.Run("returns 400 when neither lease nor lease_id", func(t *testing.T) {
		r := setupTenantRouter(NewTenantHandler(&mockTenantService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/tenants", `{"first_name":"Ada","last_name":"Lovelace"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("returns 400 when both lease and lease_id", func(t *testing.T) {
		r := setupTenantRouter(NewTenantHandler(&mockTenantService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/tenants", `{"first_name":"Ada","last_name":"Lovelace","lease_id":"`+testLeaseID+
			`","lease":{"unit_id":"`+testUnitID+`","start_date":"2024-01-01","rental_price":100,"payment_frequency":"monthly"}}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 400 on invalid nested lease", func(t *testing.T) {
		r := setupTenantRouter(NewTenantHandler(&mockTenantService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/tenants", `{"first_name":"Ada","last_name":"Lovelace","lease":{
			"unit_id":"`+testUnitID+`","start_date":"2024-01-01","rental_price":100,"payment_frequency":"fortnightly"}}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupTenantRouter(NewTenantHandler(&mockTenantService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/tenants", `{"last_name":"Lovelace","lease_id":"`+testLeaseID+`"}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 404 when lease is not owned", func(t *testing.T) {
		tenantSvc := &mockTenantService{
			createTenantFn: func(string, services.TenantInput, *string, *services.LeaseInput) (*services.TenantWithLease, error) {
				return nil, apperrors.ErrLeaseNotFound
			},
		}
		r := setupTenantRouter(NewTenantHandler(tenantSvc, &mockAuditService{}))
		rec := doRequest(r, "POST", "/tenants", `{"first_name":"Ada","last_name":"Lovelace","lease_id":"`+testLeaseID+`"}`)
		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "LEASE_NOT_FOUND")
	})
}

func TestTenantHandler_GetRealtorTenants(t *testing.T) {
	tenantSvc := &mockTenantService{
		getRealtorTenantsFn: func(realtorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Tenant], error) {
			if realtorID != testRealtorID {
				t.Errorf("expected realtor %s, got %s", testRealtorID, realtorID)
			}
			resp := pagination.NewPageResponse([]models.Tenant{{FirstName: "Ada"}}, 1, 20, 1)
			return &resp, nil
		},
	}
	r := setupTenantRouter(NewTenantHandler(tenantSvc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/tenants", "")

	assertStatus(t, rec, http.StatusOK)
	if len(parseJSON(t, rec)["data"].([]interface{})) != 1 {
		t.Error("expected 1 tenant")
	}
}

func TestTenantHandler_GetTenantByID(t *testing.T) {
	tenantSvc := &mockTenantService{
		getTenantByIDFn: func(string, string) (*models.Tenant, error) {
			return nil, apperrors.ErrTenantNotFound
		},
	}
	r := setupTenantRouter(NewTenantHandler(tenantSvc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/tenants/"+testTenantID, "")

	assertStatus(t, rec, http.StatusNotFound)
	assertErrorCode(t, parseJSON(t, rec), "TENANT_NOT_FOUND")
}

func TestTenantHandler_UpdateTenant(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		var got services.TenantUpdateFields
		tenantSvc := &mockTenantService{
			updateTenantFn: func(_, _ string, fields services.TenantUpdateFields) (*models.Tenant, error) {
				got = fields
				return &models.Tenant{Phone: *fields.Phone}, nil
			},
		}
		r := setupTenantRouter(NewTenantHandler(tenantSvc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/tenants/"+testTenantID, `{"phone":"555-0199"}`)

		assertStatus(t, rec, http.StatusOK)
		if got.Phone == nil || *got.Phone != "555-0199" {
			t.Errorf("expected phone passed, got %v", got.Phone)
		}
		if got.FirstName != nil || got.Email != nil {
			t.Error("expected other fields nil")
		}
	})

	t.Run("returns 400 on invalid email", func(t *testing.T) {
		r := setupTenantRouter(NewTenantHandler(&mockTenantService{}, &mockAuditService{}))
		rec := doRequest(r, "PUT", "/tenants/"+testTenantID, `{"email":"nope"}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestTenantHandler_DeleteTenant(t *testing.T) {
	deleted := ""
	tenantSvc := &mockTenantService{
		deleteTenantFn: func(_, tenantID string) error {
			deleted = tenantID
			return nil
		},
	}
	audit := &mockAuditService{}
	r := setupTenantRouter(NewTenantHandler(tenantSvc, audit))

	rec := doRequest(r, "DELETE", "/tenants/"+testTenantID, "")

	assertStatus(t, rec, http.StatusOK)
	if deleted != testTenantID {
		t.Errorf("expected %s deleted, got %q", testTenantID, deleted)
	}
	if len(audit.calls) != 1 || audit.calls[0].action != "DELETE_TENANT" {
		t.Errorf("expected DELETE_TENANT audit, got %+v", audit.calls)
	}
}
