package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"rentwise/internal/worker"
)

type mockReconciler struct {
	runFn func(asOf time.Time) (*worker.Report, error)
}

func (m *mockReconciler) RunOnce(_ context.Context, asOf time.Time) (*worker.Report, error) {
	return m.runFn(asOf)
}

func setupOpsRouter(handler *OpsHandler) *gin.Engine {
	r := gin.New()
	r.POST("/ops/reconcile", handler.Reconcile)
	return r
}

func TestOpsHandler_Reconcile(t *testing.T) {
	t.Run("returns report", func(t *testing.T) {
		var gotAsOf time.Time
		rec := doRequest(setupOpsRouter(NewOpsHandler(&mockReconciler{
			runFn: func(asOf time.Time) (*worker.Report, error) {
				gotAsOf = asOf
				return &worker.Report{AsOf: asOf, MarkedLate: 3, EntriesAdded: 1}, nil
			},
		})), "POST", "/ops/reconcile?as_of=2024-07-01", "")

		assertStatus(t, rec, http.StatusOK)
		if !gotAsOf.Equal(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected 2024-07-01, got %v", gotAsOf)
		}
		result := parseJSON(t, rec)
		if result["partial"] != false {
			t.Errorf("expected partial false, got %v", result["partial"])
		}
		report := result["report"].(map[string]interface{})
		if report["marked_late"] != float64(3) {
			t.Errorf("expected marked_late 3, got %v", report["marked_late"])
		}
	})

	t.Run("flags partial runs", func(t *testing.T) {
		rec := doRequest(setupOpsRouter(NewOpsHandler(&mockReconciler{
			runFn: func(asOf time.Time) (*worker.Report, error) {
				return &worker.Report{AsOf: asOf}, errors.New("one lease failed")
			},
		})), "POST", "/ops/reconcile", "")

		assertStatus(t, rec, http.StatusOK)
		if parseJSON(t, rec)["partial"] != true {
			t.Error("expected partial true")
		}
	})

	t.Run("returns 500 on failure", func(t *testing.T) {
		rec := doRequest(setupOpsRouter(NewOpsHandler(&mockReconciler{
			runFn: func(time.Time) (*worker.Report, error) {
				return nil, errors.New("database is down")
			},
		})), "POST", "/ops/reconcile", "")

		assertStatus(t, rec, http.StatusInternalServerError)
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})

	t.Run("returns 400 on bad as_of", func(t *testing.T) {
		rec := doRequest(setupOpsRouter(NewOpsHandler(&mockReconciler{})), "POST", "/ops/reconcile?as_of=soon", "")
		assertStatus(t, rec, http.StatusBadRequest)
	})
}
