package services

import (
	"context"
	"testing"

	"rentwise/internal/models"
	"rentwise/internal/testutil"
)

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPaymentService(db, 0, 30)

	realtor := testutil.CreateTestRealtor(t, db)
	lease := testutil.CreateTestLease(t, db, realtor.ID, testutil.CreateTestUnit(t, db, realtor.ID).ID)

	t.Run("full_amount_by_default", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 1, 1), 100000)

		got, err := svc.RecordPayment(ctx, realtor.ID, entry.ID, testutil.Date(2024, 1, 3), nil)
		testutil.AssertNoError(t, err)

		if got.Status != models.PaymentStatusPaid {
			t.Errorf("expected paid, got %s", got.Status)
		}
		if got.AmountPaid == nil || *got.AmountPaid != 100000 {
			t.Errorf("expected amount paid 100000, got %v", got.AmountPaid)
		}

		var stored models.PaymentScheduleEntry
		db.First(&stored, "id = ?", entry.ID)
		if stored.Status != models.PaymentStatusPaid || stored.PaidOn == nil {
			t.Errorf("expected stored entry paid with date, got %s %v", stored.Status, stored.PaidOn)
		}
	})

	t.Run("partial_amount", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 2, 1), 100000)
		amount := int64(60000)

		got, err := svc.RecordPayment(ctx, realtor.ID, entry.ID, testutil.Date(2024, 2, 1), &amount)
		testutil.AssertNoError(t, err)
		if *got.AmountPaid != amount {
			t.Errorf("expected amount paid %d, got %d", amount, *got.AmountPaid)
		}
	})

	t.Run("already_paid", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 3, 1), 100000)
		_, err := svc.RecordPayment(ctx, realtor.ID, entry.ID, testutil.Date(2024, 3, 1), nil)
		testutil.AssertNoError(t, err)

		_, err = svc.RecordPayment(ctx, realtor.ID, entry.ID, testutil.Date(2024, 3, 2), nil)
		testutil.AssertAppError(t, err, "INVALID_PAYMENT_TRANSITION")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 4, 1), 100000)
		zero := int64(0)
		_, err := svc.RecordPayment(ctx, realtor.ID, entry.ID, testutil.Date(2024, 4, 1), &zero)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("other_realtor", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 5, 1), 100000)
		other := testutil.CreateTestRealtor(t, db)
		_, err := svc.RecordPayment(ctx, other.ID, entry.ID, testutil.Date(2024, 5, 1), nil)
		testutil.AssertAppError(t, err, "PAYMENT_ENTRY_NOT_FOUND")
	})
}

func TestUpdateEntryStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPaymentService(db, 0, 30)

	realtor := testutil.CreateTestRealtor(t, db)
	lease := testutil.CreateTestLease(t, db, realtor.ID, testutil.CreateTestUnit(t, db, realtor.ID).ID)

	t.Run("cancel_pending", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 1, 1), 1000)
		got, err := svc.UpdateEntryStatus(ctx, realtor.ID, entry.ID, models.PaymentStatusCancelled)
		testutil.AssertNoError(t, err)
		if got.Status != models.PaymentStatusCancelled {
			t.Errorf("expected cancelled, got %s", got.Status)
		}

		_, err = svc.UpdateEntryStatus(ctx, realtor.ID, entry.ID, models.PaymentStatusRejected)
		testutil.AssertAppError(t, err, "INVALID_PAYMENT_TRANSITION")
	})

	t.Run("reject_late", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 2, 1), 1000)
		db.Model(entry).Update("status", models.PaymentStatusLate)

		got, err := svc.UpdateEntryStatus(ctx, realtor.ID, entry.ID, models.PaymentStatusRejected)
		testutil.AssertNoError(t, err)
		if got.Status != models.PaymentStatusRejected {
			t.Errorf("expected rejected, got %s", got.Status)
		}
	})

	t.Run("pending_to_overdue_skips_late", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 3, 1), 1000)
		_, err := svc.UpdateEntryStatus(ctx, realtor.ID, entry.ID, models.PaymentStatusOverdue)
		testutil.AssertAppError(t, err, "INVALID_PAYMENT_TRANSITION")
	})

	t.Run("paid_is_rejected", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 4, 1), 1000)
		_, err := svc.UpdateEntryStatus(ctx, realtor.ID, entry.ID, models.PaymentStatusPaid)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown_status", func(t *testing.T) {
		entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 5, 1), 1000)
		_, err := svc.UpdateEntryStatus(ctx, realtor.ID, entry.ID, models.PaymentStatus("waived"))
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestGetPaymentsInRange(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPaymentService(db, 0, 30)

	realtor := testutil.CreateTestRealtor(t, db)
	unit := testutil.CreateTestUnit(t, db, realtor.ID)
	lease := testutil.CreateTestLease(t, db, realtor.ID, unit.ID)
	second := testutil.CreateTestLease(t, db, realtor.ID, unit.ID)

	testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 1, 1), 1000)
	feb := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 2, 1), 1000)
	testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 3, 1), 1000)
	testutil.CreateTestPaymentEntry(t, db, second.ID, testutil.Date(2024, 2, 15), 500)
	db.Model(feb).Update("status", models.PaymentStatusLate)

	other := testutil.CreateTestRealtor(t, db)
	otherLease := testutil.CreateTestLease(t, db, other.ID, testutil.CreateTestUnit(t, db, other.ID).ID)
	testutil.CreateTestPaymentEntry(t, db, otherLease.ID, testutil.Date(2024, 2, 10), 9999)

	t.Run("inclusive_range", func(t *testing.T) {
		entries, err := svc.GetPaymentsInRange(ctx, realtor.ID, PaymentFilter{
			From: testutil.Date(2024, 2, 1),
			To:   testutil.Date(2024, 3, 1),
		})
		testutil.AssertNoError(t, err)
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		if !entries[0].DueDate.Equal(testutil.Date(2024, 2, 1)) || !entries[2].DueDate.Equal(testutil.Date(2024, 3, 1)) {
			t.Error("expected entries ordered by due date with inclusive bounds")
		}
	})

	t.Run("status_filter", func(t *testing.T) {
		late := models.PaymentStatusLate
		entries, err := svc.GetPaymentsInRange(ctx, realtor.ID, PaymentFilter{
			From:   testutil.Date(2024, 1, 1),
			To:     testutil.Date(2024, 12, 31),
			Status: &late,
		})
		testutil.AssertNoError(t, err)
		if len(entries) != 1 || entries[0].ID != feb.ID {
			t.Errorf("expected only the late entry, got %d", len(entries))
		}
	})

	t.Run("lease_filter", func(t *testing.T) {
		entries, err := svc.GetPaymentsInRange(ctx, realtor.ID, PaymentFilter{
			From:    testutil.Date(2024, 1, 1),
			To:      testutil.Date(2024, 12, 31),
			LeaseID: &second.ID,
		})
		testutil.AssertNoError(t, err)
		if len(entries) != 1 {
			t.Errorf("expected 1 entry on the second lease, got %d", len(entries))
		}
	})

	t.Run("inverted_range", func(t *testing.T) {
		_, err := svc.GetPaymentsInRange(ctx, realtor.ID, PaymentFilter{
			From: testutil.Date(2024, 3, 1),
			To:   testutil.Date(2024, 2, 1),
		})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestReconcileStatuses(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPaymentService(db, 5, 30)

	realtor := testutil.CreateTestRealtor(t, db)
	lease := testutil.CreateTestLease(t, db, realtor.ID, testutil.CreateTestUnit(t, db, realtor.ID).ID)

	// as of 2024-03-10: late cutoff 03-05, overdue cutoff 02-09
	veryOld := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 1, 1), 1000)
	recent := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 3, 1), 1000)
	withinGrace := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 3, 6), 1000)
	alreadyLate := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2024, 2, 1), 1000)
	paid := testutil.CreateTestPaymentEntry(t, db, lease.ID, testutil.Date(2023, 12, 1), 1000)
	db.Model(alreadyLate).Update("status", models.PaymentStatusLate)
	db.Model(paid).Update("status", models.PaymentStatusPaid)

	result, err := svc.ReconcileStatuses(ctx, testutil.Date(2024, 3, 10))
	testutil.AssertNoError(t, err)

	if result.MarkedLate != 2 {
		t.Errorf("expected 2 entries marked late, got %d", result.MarkedLate)
	}
	if result.MarkedOverdue != 2 {
		t.Errorf("expected 2 entries marked overdue, got %d", result.MarkedOverdue)
	}

	want := map[string]models.PaymentStatus{
		veryOld.ID:     models.PaymentStatusOverdue,
		recent.ID:      models.PaymentStatusLate,
		withinGrace.ID: models.PaymentStatusPending,
		alreadyLate.ID: models.PaymentStatusOverdue,
		paid.ID:        models.PaymentStatusPaid,
	}
	for id, status := range want {
		var entry models.PaymentScheduleEntry
		db.First(&entry, "id = ?", id)
		if entry.Status != status {
			t.Errorf("entry due %s: expected %s, got %s", entry.DueDate.Format("2006-01-02"), status, entry.Status)
		}
	}

	again, err := svc.ReconcileStatuses(ctx, testutil.Date(2024, 3, 10))
	testutil.AssertNoError(t, err)
	if again.MarkedLate != 0 || again.MarkedOverdue != 0 {
		t.Errorf("expected a second run to be a no-op, got %+v", again)
	}
}
