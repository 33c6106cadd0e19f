package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
	"rentwise/internal/services"
	"rentwise/internal/uuid"
)

// PaymentHandler handles payment schedule entry requests.
type PaymentHandler struct {
	paymentService services.PaymentServicer
	auditService   services.AuditServicer
	now            func() time.Time
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService services.PaymentServicer, auditService services.AuditServicer) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, auditService: auditService, now: time.Now}
}

// RecordPaymentRequest represents the request payload for recording a payment.
// paid_on defaults to today and amount_paid to the amount due.
type RecordPaymentRequest struct {
	PaidOn     string `json:"paid_on" binding:"omitempty,date_only"`
	AmountPaid *int64 `json:"amount_paid" binding:"omitempty,gt=0"`
}

// UpdatePaymentStatusRequest represents the request payload for a manual status change
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required,payment_status"`
}

// GetPayments lists scheduled payments in a due-date window
// @Summary     List payments
// @Description Get the realtor's schedule entries due between from and to (inclusive), ordered by due date
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       from     query string true  "First due date (YYYY-MM-DD)"
// @Param       to       query string true  "Last due date (YYYY-MM-DD)"
// @Param       status   query string false "Filter by entry status"
// @Param       lease_id query string false "Filter by lease"
// @Success     200 {array}  models.PaymentScheduleEntry "Entries"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments [get]
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, err := parseDate("from", c.Query("from"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := parseDate("to", c.Query("to"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.PaymentFilter{From: from, To: to}
	if v := c.Query("status"); v != "" {
		status := models.PaymentStatus(v)
		if !status.Valid() {
			respondWithError(c, apperrors.Validation("Invalid status"))
			return
		}
		filter.Status = &status
	}
	if v := c.Query("lease_id"); v != "" {
		if !uuid.IsValid(v) {
			respondWithError(c, apperrors.Validation("Invalid lease_id"))
			return
		}
		filter.LeaseID = &v
	}

	entries, err := h.paymentService.GetPaymentsInRange(c.Request.Context(), realtorID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": entries})
}

// RecordPayment marks a pending entry as paid
// @Summary     Record a payment
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Entry ID"
// @Param       request body RecordPaymentRequest false "Payment details"
// @Success     200 {object} models.PaymentScheduleEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     409 {object} ErrorResponse "Entry is not pending"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id}/record [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, bindError(err))
			return
		}
	}

	paidOn, err := parseDate("paid_on", req.PaidOn)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if paidOn.IsZero() {
		paidOn = h.now()
	}

	entry, err := h.paymentService.RecordPayment(c.Request.Context(), realtorID, entryID, paidOn, req.AmountPaid)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "RECORD_PAYMENT", "payment_schedule_entry", entryID, c.ClientIP(),
		map[string]interface{}{"amount_paid": entry.AmountPaid, "paid_on": paidOn.Format(time.DateOnly)})

	c.JSON(http.StatusOK, gin.H{"payment": entry})
}

// UpdatePaymentStatus applies a manual status change to an entry
// @Summary     Update payment status
// @Description Move an entry to late, overdue, cancelled or rejected following its state machine
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                     true "Entry ID"
// @Param       request body UpdatePaymentStatusRequest true "New status"
// @Success     200 {object} models.PaymentScheduleEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     409 {object} ErrorResponse "Status change not allowed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id}/status [patch]
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	realtorID, err := getRealtorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	status := models.PaymentStatus(req.Status)
	entry, err := h.paymentService.UpdateEntryStatus(c.Request.Context(), realtorID, entryID, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(realtorID, "UPDATE_PAYMENT_STATUS", "payment_schedule_entry", entryID, c.ClientIP(),
		map[string]interface{}{"status": status})

	c.JSON(http.StatusOK, gin.H{"payment": entry})
}
