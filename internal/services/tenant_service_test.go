package services

import (
	"context"
	"errors"
	"testing"

	"rentwise/internal/models"
	"rentwise/internal/pagination"
	"rentwise/internal/testutil"
)

func TestCreateTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("with_new_lease", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db, NewLeaseService(db, nil))
		realtor := testutil.CreateTestRealtor(t, db)
		unit := testutil.CreateTestUnit(t, db, realtor.ID)

		end := testutil.Date(2024, 4, 30)
		result, err := svc.CreateTenant(ctx, realtor.ID,
			TenantInput{FirstName: " Ada ", LastName: "Lovelace", Email: "ada@example.com"},
			nil,
			&LeaseInput{
				UnitID:           unit.ID,
				StartDate:        testutil.Date(2024, 1, 31),
				EndDate:          &end,
				RentalPrice:      100000,
				PaymentFrequency: models.PaymentFrequencyMonthly,
			})
		testutil.AssertNoError(t, err)

		if result.Tenant.ID == "" || result.Tenant.FirstName != "Ada" {
			t.Errorf("expected trimmed tenant with ID, got %+v", result.Tenant)
		}
		if result.Lease == nil || result.Lease.UnitID != unit.ID {
			t.Fatal("expected a lease on the unit")
		}
		if len(result.Schedule) != 4 {
			t.Errorf("expected 4 schedule entries, got %d", len(result.Schedule))
		}
		if n := countRows(t, db, "lease_tenants", "lease_id = ? AND tenant_id = ?", result.Lease.ID, result.Tenant.ID); n != 1 {
			t.Errorf("expected tenant linked to the new lease, got %d", n)
		}
	})

	t.Run("with_existing_lease", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db, NewLeaseService(db, nil))
		realtor := testutil.CreateTestRealtor(t, db)
		unit := testutil.CreateTestUnit(t, db, realtor.ID)
		lease := testutil.CreateTestLease(t, db, realtor.ID, unit.ID)

		result, err := svc.CreateTenant(ctx, realtor.ID, TenantInput{FirstName: "Grace", LastName: "Hopper"}, &lease.ID, nil)
		testutil.AssertNoError(t, err)

		if result.Lease.ID != lease.ID {
			t.Errorf("expected lease %s, got %s", lease.ID, result.Lease.ID)
		}
		if result.Schedule != nil {
			t.Error("expected no schedule when joining an existing lease")
		}
		if n := countRows(t, db, "lease_tenants", "lease_id = ?", lease.ID); n != 1 {
			t.Errorf("expected 1 tenant on the lease, got %d", n)
		}
	})

	t.Run("existing_lease_of_other_realtor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db, NewLeaseService(db, nil))
		realtor := testutil.CreateTestRealtor(t, db)
		other := testutil.CreateTestRealtor(t, db)
		lease := testutil.CreateTestLease(t, db, other.ID, testutil.CreateTestUnit(t, db, other.ID).ID)

		_, err := svc.CreateTenant(ctx, realtor.ID, TenantInput{FirstName: "A", LastName: "B"}, &lease.ID, nil)
		testutil.AssertAppError(t, err, "LEASE_NOT_FOUND")

		if n := countRows(t, db, "tenants", "1 = 1"); n != 0 {
			t.Errorf("expected no tenant written, got %d", n)
		}
	})

	t.Run("invalid_lease_rolls_back_tenant", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db, NewLeaseService(db, nil))
		realtor := testutil.CreateTestRealtor(t, db)
		unit := testutil.CreateTestUnit(t, db, realtor.ID)

		_, err := svc.CreateTenant(ctx, realtor.ID, TenantInput{FirstName: "A", LastName: "B"}, nil, &LeaseInput{
			UnitID:           unit.ID,
			StartDate:        testutil.Date(2024, 1, 1),
			RentalPrice:      -5,
			PaymentFrequency: models.PaymentFrequencyMonthly,
		})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		if n := countRows(t, db, "tenants", "1 = 1"); n != 0 {
			t.Errorf("expected tenant rolled back, got %d", n)
		}
	})

	t.Run("schedule_failure_rolls_back_everything", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db, NewLeaseService(db, nil))
		realtor := testutil.CreateTestRealtor(t, db)
		unit := testutil.CreateTestUnit(t, db, realtor.ID)
		testutil.FailTableWrites(t, db, "payment_schedule_entries", errors.New("write timeout"))

		_, err := svc.CreateTenant(ctx, realtor.ID, TenantInput{FirstName: "A", LastName: "B"}, nil, &LeaseInput{
			UnitID:           unit.ID,
			StartDate:        testutil.Date(2024, 1, 1),
			RentalPrice:      1000,
			PaymentFrequency: models.PaymentFrequencyWeekly,
		})
		testutil.AssertAppError(t, err, "PERSISTENCE_ERROR")

		for _, table := range []string{"tenants", "leases", "lease_tenants"} {
			if n := countRows(t, db, table, "1 = 1"); n != 0 {
				t.Errorf("expected %s empty after rollback, got %d", table, n)
			}
		}
	})

	t.Run("missing_names", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db, NewLeaseService(db, nil))
		realtor := testutil.CreateTestRealtor(t, db)
		leaseID := "x"

		_, err := svc.CreateTenant(ctx, realtor.ID, TenantInput{FirstName: " "}, &leaseID, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("no_lease_reference", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db, NewLeaseService(db, nil))
		realtor := testutil.CreateTestRealtor(t, db)

		_, err := svc.CreateTenant(ctx, realtor.ID, TenantInput{FirstName: "A", LastName: "B"}, nil, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestGetRealtorTenants(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTenantService(db, NewLeaseService(db, nil))

	realtor := testutil.CreateTestRealtor(t, db)
	unit := testutil.CreateTestUnit(t, db, realtor.ID)
	first := testutil.CreateTestTenant(t, db)
	second := testutil.CreateTestTenant(t, db)
	testutil.CreateTestLease(t, db, realtor.ID, unit.ID, first, second)
	testutil.CreateTestLease(t, db, realtor.ID, unit.ID, first)

	other := testutil.CreateTestRealtor(t, db)
	testutil.CreateTestLease(t, db, other.ID, testutil.CreateTestUnit(t, db, other.ID).ID, testutil.CreateTestTenant(t, db))

	page, err := svc.GetRealtorTenants(ctx, realtor.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 2 {
		t.Fatalf("expected 2 tenants, got %d", page.TotalItems)
	}
	for _, tenant := range page.Data {
		if tenant.ID == first.ID && len(tenant.Leases) != 2 {
			t.Errorf("expected first tenant on 2 leases, got %d", len(tenant.Leases))
		}
		for _, lease := range tenant.Leases {
			if lease.RealtorID != realtor.ID {
				t.Errorf("leaked lease %s of another realtor", lease.ID)
			}
		}
	}
}

func TestGetTenantByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTenantService(db, NewLeaseService(db, nil))

	realtor := testutil.CreateTestRealtor(t, db)
	tenant := testutil.CreateTestTenant(t, db)
	testutil.CreateTestLease(t, db, realtor.ID, testutil.CreateTestUnit(t, db, realtor.ID).ID, tenant)

	t.Run("visible", func(t *testing.T) {
		got, err := svc.GetTenantByID(ctx, realtor.ID, tenant.ID)
		testutil.AssertNoError(t, err)
		if got.ID != tenant.ID {
			t.Errorf("expected tenant %s, got %s", tenant.ID, got.ID)
		}
	})

	t.Run("other_realtor", func(t *testing.T) {
		other := testutil.CreateTestRealtor(t, db)
		_, err := svc.GetTenantByID(ctx, other.ID, tenant.ID)
		testutil.AssertAppError(t, err, "TENANT_NOT_FOUND")
	})
}

func TestUpdateTenant(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTenantService(db, NewLeaseService(db, nil))

	realtor := testutil.CreateTestRealtor(t, db)
	tenant := testutil.CreateTestTenant(t, db)
	testutil.CreateTestLease(t, db, realtor.ID, testutil.CreateTestUnit(t, db, realtor.ID).ID, tenant)

	t.Run("valid", func(t *testing.T) {
		phone := "555-0199"
		got, err := svc.UpdateTenant(ctx, realtor.ID, tenant.ID, TenantUpdateFields{Phone: &phone})
		testutil.AssertNoError(t, err)
		if got.Phone != phone {
			t.Errorf("expected phone %s, got %s", phone, got.Phone)
		}
	})

	t.Run("blank_name", func(t *testing.T) {
		blank := "  "
		_, err := svc.UpdateTenant(ctx, realtor.ID, tenant.ID, TenantUpdateFields{LastName: &blank})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestDeleteTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("disconnects_all_leases", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db, NewLeaseService(db, nil))

		realtor := testutil.CreateTestRealtor(t, db)
		unit := testutil.CreateTestUnit(t, db, realtor.ID)
		tenant := testutil.CreateTestTenant(t, db)
		roommate := testutil.CreateTestTenant(t, db)
		lease := testutil.CreateTestLease(t, db, realtor.ID, unit.ID, tenant, roommate)
		testutil.CreateTestLease(t, db, realtor.ID, unit.ID, tenant)

		testutil.AssertNoError(t, svc.DeleteTenant(ctx, realtor.ID, tenant.ID))

		if n := countRows(t, db, "lease_tenants", "tenant_id = ?", tenant.ID); n != 0 {
			t.Errorf("expected tenant disconnected from every lease, got %d links", n)
		}
		if n := countRows(t, db, "lease_tenants", "lease_id = ? AND tenant_id = ?", lease.ID, roommate.ID); n != 1 {
			t.Error("expected roommate to stay on the lease")
		}
		_, err := svc.GetTenantByID(ctx, realtor.ID, tenant.ID)
		testutil.AssertAppError(t, err, "TENANT_NOT_FOUND")

		var count int64
		db.Model(&models.Lease{}).Where("id = ?", lease.ID).Count(&count)
		if count != 1 {
			t.Error("expected lease to survive tenant deletion")
		}
	})

	t.Run("not_visible", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db, NewLeaseService(db, nil))

		realtor := testutil.CreateTestRealtor(t, db)
		stranger := testutil.CreateTestTenant(t, db)

		err := svc.DeleteTenant(ctx, realtor.ID, stranger.ID)
		testutil.AssertAppError(t, err, "TENANT_NOT_FOUND")
	})
}
