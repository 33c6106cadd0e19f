package models

// Tenant is a person renting a unit. A tenant is visible to a realtor only
// through a lease that realtor owns.
type Tenant struct {
	Base
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"index" json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes,omitempty"`

	Leases []Lease `gorm:"many2many:lease_tenants;" json:"leases,omitempty"`
}
