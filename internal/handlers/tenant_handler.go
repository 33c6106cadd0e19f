package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/pagination"
	"rentwise/internal/services"
)

// TenantHandler handles tenant-related requests.
type TenantHandler struct {
	tenantService services.TenantServicer
	auditService  services.AuditServicer
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(tenantService services.TenantServicer, auditService services.AuditServicer) *TenantHandler {
	return &TenantHandler{tenantService: tenantService, auditService: auditService}
}

// CreateTenantRequest represents the request payload for creating a tenant.
// Exactly one of lease_id (join an existing lease) or lease (create one) is required.
type CreateTenantRequest struct {
	FirstName string             `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string             `json:"last_name" binding:"required,min=1,max=100"`
	Email     string             `json:"email" binding:"omitempty,email"`
	Phone     string             `json:"phone" binding:"max=50"`
	Notes     string             `json:"notes" binding:"max=2000"`
	LeaseID   *string            `json:"lease_id" binding:"omitempty,uuid"`
	Lease     *LeaseTermsRequest `json:"lease"`
}

// UpdateTenantRequest represents the request payload for updating a tenant
type UpdateTenantRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Notes     *string `json:"notes" binding:"omitempty,max=2000"`
}

// CreateTenant creates a tenant attached to a lease
// @Summary     Create a tenant
// @Description Create a tenant and either add it to an existing lease or create a new lease with its payment schedule
// @Tags        tenants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTenantRequest true "Tenant details"
// @Success     201 {object} services.TenantWithLease "Tenant created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Lease or unit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if (req.LeaseID == nil) == (req.Lease == nil) {
		respondWithError(c, apperrors.Validation("provide either lease_id or lease"))
		return
	}

	var leaseInput *services.LeaseInput
	if req.Lease != nil {
		input, err := req.Lease.toInput()
		if err != nil {
			respondWithError(c, err)
			return
		}
		leaseInput = &input
	}

	result, err := h.tenantService.CreateTenant(c.Request.Context(), realtorID, services.TenantInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	}, req.LeaseID, leaseInput)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "CREATE_TENANT", "tenant", result.Tenant.ID, c.ClientIP(),
		map[string]interface{}{"lease_id": result.Lease.ID, "new_lease": leaseInput != nil})
	if leaseInput != nil {
		h.auditService.Log(realtorID, "CREATE_LEASE", "lease", result.Lease.ID, c.ClientIP(),
			map[string]interface{}{"tenant_id": result.Tenant.ID, "entries": len(result.Schedule)})
	}

	c.JSON(http.StatusCreated, result)
}

// GetRealtorTenants lists tenants on the realtor's leases
// @Summary     List tenants
// @Tags        tenants
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Param       sort      query string false "last_name or created_at; prefix - for descending"
// @Success     200 {object} pagination.PageResponse[models.Tenant] "Paginated tenants"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants [get]
func (h *TenantHandler) GetRealtorTenants(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.tenantService.GetRealtorTenants(c.Request.Context(), realtorID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTenantByID returns one tenant with its leases
// @Summary     Get tenant by ID
// @Tags        tenants
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Tenant ID"
// @Success     200 {object} models.Tenant "Tenant details"
// @Failure     400 {object} ErrorResponse "Invalid tenant ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants/{id} [get]
func (h *TenantHandler) GetTenantByID(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenantID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), realtorID, tenantID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// UpdateTenant updates a tenant's contact details
// @Summary     Update tenant
// @Tags        tenants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Tenant ID"
// @Param       request body UpdateTenantRequest true "Tenant fields"
// @Success     200 {object} models.Tenant "Updated tenant"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenantID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), realtorID, tenantID, services.TenantUpdateFields{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "UPDATE_TENANT", "tenant", tenantID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// DeleteTenant removes a tenant from every lease and deletes it
// @Summary     Delete tenant
// @Tags        tenants
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Tenant ID"
// @Success     200 {object} MessageResponse "Tenant deleted"
// @Failure     400 {object} ErrorResponse "Invalid tenant ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenantID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tenantService.DeleteTenant(c.Request.Context(), realtorID, tenantID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "DELETE_TENANT", "tenant", tenantID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Tenant deleted successfully"})
}
