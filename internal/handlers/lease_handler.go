package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
	"rentwise/internal/pagination"
	"rentwise/internal/services"
	"rentwise/internal/uuid"
)

// LeaseHandler handles lease-related requests.
type LeaseHandler struct {
	leaseService services.LeaseServicer
	auditService services.AuditServicer
	now          func() time.Time
}

// NewLeaseHandler creates a new LeaseHandler.
func NewLeaseHandler(leaseService services.LeaseServicer, auditService services.AuditServicer) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService, auditService: auditService, now: time.Now}
}

// LeaseTermsRequest holds the terms of a new lease. Dates are YYYY-MM-DD and
// rental_price is in minor currency units.
type LeaseTermsRequest struct {
	UnitID           string  `json:"unit_id" binding:"required,uuid"`
	StartDate        string  `json:"start_date" binding:"required,date_only"`
	EndDate          *string `json:"end_date" binding:"omitempty,date_only"`
	RentalPrice      int64   `json:"rental_price" binding:"required,gt=0,lte=1000000000000"`
	PaymentFrequency string  `json:"payment_frequency" binding:"required,payment_frequency"`
	Currency         string  `json:"currency" binding:"omitempty,iso4217"`
	Status           string  `json:"status" binding:"omitempty,oneof=pending active"`
	Notes            string  `json:"notes" binding:"max=2000"`
}

// CreateLeaseRequest represents the request payload for creating a lease
type CreateLeaseRequest struct {
	TenantID string `json:"tenant_id" binding:"required,uuid"`
	LeaseTermsRequest
}

// UpdateLeaseRequest represents the request payload for updating a lease
type UpdateLeaseRequest struct {
	Status *string `json:"status" binding:"omitempty,lease_status"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
}

// toInput converts the request terms to a service LeaseInput.
func (r LeaseTermsRequest) toInput() (services.LeaseInput, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return services.LeaseInput{}, err
	}
	end, err := parseOptionalDate("end_date", r.EndDate)
	if err != nil {
		return services.LeaseInput{}, err
	}
	return services.LeaseInput{
		UnitID:           r.UnitID,
		StartDate:        start,
		EndDate:          end,
		RentalPrice:      r.RentalPrice,
		PaymentFrequency: models.PaymentFrequency(r.PaymentFrequency),
		Currency:         r.Currency,
		Status:           models.LeaseStatus(r.Status),
		Notes:            r.Notes,
	}, nil
}

// CreateLease creates a lease and its payment schedule in one step
// @Summary     Create a lease
// @Description Create a lease for an existing tenant and unit and generate its payment schedule
// @Tags        leases
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLeaseRequest true "Lease details"
// @Success     201 {object} services.LeaseWithSchedule "Lease and schedule created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unit or tenant not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /leases [post]
func (h *LeaseHandler) CreateLease(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}
	input.TenantID = req.TenantID

	result, err := h.leaseService.CreateLeaseWithPaymentSchedule(c.Request.Context(), input, realtorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "CREATE_LEASE", "lease", result.Lease.ID, c.ClientIP(),
		map[string]interface{}{
			"unit_id":           input.UnitID,
			"tenant_id":         input.TenantID,
			"payment_frequency": input.PaymentFrequency,
			"entries":           len(result.Schedule),
		})

	c.JSON(http.StatusCreated, result)
}

// GetRealtorLeases lists the realtor's leases
// @Summary     List leases
// @Description Get a paginated list of leases, newest start date first
// @Tags        leases
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by lease status"
// @Param       unit_id   query string false "Filter by unit"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       sort      query string false "start_date, rental_price or created_at; prefix - for descending"
// @Success     200 {object} pagination.PageResponse[models.Lease] "Paginated leases"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /leases [get]
func (h *LeaseHandler) GetRealtorLeases(c *gin.Context) {
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

	var filter services.LeaseFilter
	if v := c.Query("status"); v != "" {
		status := models.LeaseStatus(v)
		if !status.Valid() {
			respondWithError(c, apperrors.Validation("Invalid status"))
			return
		}
		filter.Status = &status
	}
	if v := c.Query("unit_id"); v != "" {
		if !uuid.IsValid(v) {
			respondWithError(c, apperrors.Validation("Invalid unit_id"))
			return
		}
		filter.UnitID = &v
	}

	result, err := h.leaseService.GetRealtorLeases(c.Request.Context(), realtorID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLeaseByID returns one lease with its unit and tenants
// @Summary     Get lease by ID
// @Tags        leases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Lease ID"
// @Success     200 {object} models.Lease "Lease details"
// @Failure     400 {object} ErrorResponse "Invalid lease ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Lease not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /leases/{id} [get]
func (h *LeaseHandler) GetLeaseByID(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	leaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	lease, err := h.leaseService.GetLeaseByID(c.Request.Context(), realtorID, leaseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease": lease})
}

// UpdateLease changes a lease's status or notes
// @Summary     Update lease
// @Description Move a lease through its lifecycle or edit its notes. Terminating a lease cancels its future unpaid entries.
// @Tags        leases
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Lease ID"
// @Param       request body UpdateLeaseRequest true "Lease fields"
// @Success     200 {object} models.Lease "Updated lease"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Lease not found"
// @Failure     409 {object} ErrorResponse "Status change not allowed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /leases/{id} [patch]
func (h *LeaseHandler) UpdateLease(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	leaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	fields := services.LeaseUpdateFields{Notes: req.Notes}
	changes := map[string]interface{}{}
	if req.Status != nil {
		status := models.LeaseStatus(*req.Status)
		fields.Status = &status
		changes["status"] = status
	}

	lease, err := h.leaseService.UpdateLease(c.Request.Context(), realtorID, leaseID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "UPDATE_LEASE", "lease", leaseID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"lease": lease})
}

// DeleteLease deletes a lease and its payment schedule
// @Summary     Delete lease
// @Tags        leases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Lease ID"
// @Success     200 {object} MessageResponse "Lease deleted"
// @Failure     400 {object} ErrorResponse "Invalid lease ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Lease not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /leases/{id} [delete]
func (h *LeaseHandler) DeleteLease(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	leaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.leaseService.DeleteLease(c.Request.Context(), realtorID, leaseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "DELETE_LEASE", "lease", leaseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Lease deleted successfully"})
}

// GetLeaseSchedule returns every payment entry of a lease
// @Summary     Get lease payment schedule
// @Tags        leases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Lease ID"
// @Success     200 {array}  models.PaymentScheduleEntry "Entries ordered by due date"
// @Failure     400 {object} ErrorResponse "Invalid lease ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Lease not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /leases/{id}/schedule [get]
func (h *LeaseHandler) GetLeaseSchedule(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	leaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.leaseService.GetLeaseSchedule(c.Request.Context(), realtorID, leaseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": entries})
}

// GetLeaseHistory returns the audit trail of a lease
// @Summary     Get lease history
// @Description Recorded changes to the lease, newest first
// @Tags        leases
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Lease ID"
// @Param       limit query int    false "Maximum entries (default and max 200)"
// @Success     200 {array}  models.AuditLog "Audit entries"
// @Failure     400 {object} ErrorResponse "Invalid lease ID or limit"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Lease not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /leases/{id}/history [get]
func (h *LeaseHandler) GetLeaseHistory(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	leaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondWithError(c, apperrors.Validation("limit must be a positive integer"))
			return
		}
	}

	ctx := c.Request.Context()
	if _, err := h.leaseService.GetLeaseByID(ctx, realtorID, leaseID); err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.auditService.History(ctx, realtorID, "lease", leaseID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// GetLeaseSummary aggregates a lease's schedule
// @Summary     Get lease payment summary
// @Description Totals, counts and the next amount due, as of the given day (default today)
// @Tags        leases
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Lease ID"
// @Param       as_of query string false "Reference day (YYYY-MM-DD)"
// @Success     200 {object} services.LeaseSummary "Lease summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Lease not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /leases/{id}/summary [get]
func (h *LeaseHandler) GetLeaseSummary(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	leaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf, err := parseDate("as_of", c.Query("as_of"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if asOf.IsZero() {
		asOf = h.now()
	}

	summary, err := h.leaseService.GetLeaseSummary(c.Request.Context(), realtorID, leaseID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
