package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"rentwise/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestRealtor creates an active realtor with a unique email.
func CreateTestRealtor(t *testing.T, db *gorm.DB) *models.Realtor {
	t.Helper()
	email := fmt.Sprintf("realtor%d@test.com", nextID())
	return CreateTestRealtorWithEmail(t, db, email)
}

// CreateTestRealtorWithEmail creates an active realtor with the given email.
func CreateTestRealtorWithEmail(t *testing.T, db *gorm.DB, email string) *models.Realtor {
	t.Helper()

	realtor := &models.Realtor{
		Email:     email,
		FirstName: "Test",
		LastName:  fmt.Sprintf("Realtor%d", nextID()),
		IsActive:  true,
	}
	if err := db.Create(realtor).Error; err != nil {
		t.Fatalf("failed to create test realtor: %v", err)
	}
	return realtor
}

// CreateTestUnit creates a unit owned by the given realtor.
func CreateTestUnit(t *testing.T, db *gorm.DB, realtorID string) *models.Unit {
	t.Helper()

	n := nextID()
	unit := &models.Unit{
		RealtorID:      realtorID,
		UnitIdentifier: fmt.Sprintf("Unit %d", n),
		Address:        fmt.Sprintf("%d Test Street", n),
		Bedrooms:       2,
		Bathrooms:      1,
	}
	if err := db.Create(unit).Error; err != nil {
		t.Fatalf("failed to create test unit: %v", err)
	}
	return unit
}

// CreateTestTenant creates a tenant that is not yet linked to any lease.
func CreateTestTenant(t *testing.T, db *gorm.DB) *models.Tenant {
	t.Helper()

	n := nextID()
	tenant := &models.Tenant{
		FirstName: "Test",
		LastName:  fmt.Sprintf("Tenant%d", n),
		Email:     fmt.Sprintf("tenant%d@test.com", n),
		Phone:     "555-0100",
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("failed to create test tenant: %v", err)
	}
	return tenant
}

// CreateTestLease creates a monthly lease of 1000.00 starting 2024-01-01 with
// no end date, linked to the given tenants. No schedule entries are written.
func CreateTestLease(t *testing.T, db *gorm.DB, realtorID, unitID string, tenants ...*models.Tenant) *models.Lease {
	t.Helper()

	lease := &models.Lease{
		RealtorID:        realtorID,
		UnitID:           unitID,
		StartDate:        Date(2024, time.January, 1),
		RentalPrice:      100000, // $1000.00
		Currency:         "USD",
		PaymentFrequency: models.PaymentFrequencyMonthly,
		Status:           models.LeaseStatusActive,
	}
	for _, tenant := range tenants {
		lease.Tenants = append(lease.Tenants, *tenant)
	}
	if err := db.Create(lease).Error; err != nil {
		t.Fatalf("failed to create test lease: %v", err)
	}
	return lease
}

// CreateTestPaymentEntry creates a pending schedule entry for the given lease.
func CreateTestPaymentEntry(t *testing.T, db *gorm.DB, leaseID string, due time.Time, amount int64) *models.PaymentScheduleEntry {
	t.Helper()

	entry := &models.PaymentScheduleEntry{
		LeaseID:   leaseID,
		DueDate:   due,
		AmountDue: amount,
		Status:    models.PaymentStatusPending,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test payment entry: %v", err)
	}
	return entry
}
