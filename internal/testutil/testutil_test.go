package testutil_test

import (
	"errors"
	"testing"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
	"rentwise/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"realtors", "units", "tenants", "leases", "lease_tenants", "payment_schedule_entries", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestRealtor(t, first)

	var count int64
	second.Model(&models.Realtor{}).Count(&count)
	if count != 0 {
		t.Errorf("expected an empty second database, found %d realtors", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	realtor := testutil.CreateTestRealtor(t, db)
	if realtor.ID == "" {
		t.Fatal("realtor should have an ID")
	}

	unit := testutil.CreateTestUnit(t, db, realtor.ID)
	if unit.RealtorID != realtor.ID {
		t.Errorf("expected unit owned by %s, got %s", realtor.ID, unit.RealtorID)
	}

	tenant := testutil.CreateTestTenant(t, db)
	lease := testutil.CreateTestLease(t, db, realtor.ID, unit.ID, tenant)
	if lease.PaymentFrequency != models.PaymentFrequencyMonthly {
		t.Errorf("expected monthly lease, got %s", lease.PaymentFrequency)
	}

	var links int64
	db.Table("lease_tenants").Where("lease_id = ? AND tenant_id = ?", lease.ID, tenant.ID).Count(&links)
	if links != 1 {
		t.Errorf("expected tenant linked to lease, got %d links", links)
	}

	entry := testutil.CreateTestPaymentEntry(t, db, lease.ID, lease.StartDate, 100000)
	if entry.Status != models.PaymentStatusPending {
		t.Errorf("expected pending entry, got %s", entry.Status)
	}
}

func TestFailTableWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	boom := errors.New("disk full")
	testutil.FailTableWrites(t, db, "units", boom)

	realtor := testutil.CreateTestRealtor(t, db)
	err := db.Create(&models.Unit{RealtorID: realtor.ID, UnitIdentifier: "A"}).Error
	if !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
}

func TestAssertAppError(t *testing.T) {
	err := apperrors.WithMessage(apperrors.ErrLeaseNotFound, "custom message")
	testutil.AssertAppError(t, err, "LEASE_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
