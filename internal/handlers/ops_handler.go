package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rentwise/internal/logger"
	"rentwise/internal/worker"
)

// Reconciler runs one schedule maintenance pass.
type Reconciler interface {
	RunOnce(ctx context.Context, asOf time.Time) (*worker.Report, error)
}

// OpsHandler serves operational endpoints for external schedulers.
type OpsHandler struct {
	reconciler Reconciler
	now        func() time.Time
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(reconciler Reconciler) *OpsHandler {
	return &OpsHandler{reconciler: reconciler, now: time.Now}
}

// Reconcile extends open-ended schedules and moves unpaid entries to late or overdue
// @Summary     Run schedule reconciliation
// @Tags        ops
// @Produce     json
// @Security    OpsAPIKey
// @Param       as_of query string false "Reference day (YYYY-MM-DD, default today)"
// @Success     200 {object} worker.Report "Run report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Failure     503 {object} ErrorResponse "Ops endpoints not configured"
// @Router      /ops/reconcile [post]
func (h *OpsHandler) Reconcile(c *gin.Context) {
	asOf, err := parseDate("as_of", c.Query("as_of"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if asOf.IsZero() {
		asOf = h.now()
	}

	report, err := h.reconciler.RunOnce(c.Request.Context(), asOf)
	if err != nil {
		if report == nil {
			respondWithError(c, err)
			return
		}
		// Some leases could not be extended; the rest of the run stands.
		logger.Get().Warnw("reconciliation finished with errors", "error", err)
		c.JSON(http.StatusOK, gin.H{"report": report, "partial": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report, "partial": false})
}
