package models

// RealtorTitle is the courtesy title shown on a realtor profile.
type RealtorTitle string

const (
	RealtorTitleMr  RealtorTitle = "Mr"
	RealtorTitleMrs RealtorTitle = "Mrs"
	RealtorTitleMs  RealtorTitle = "Ms"
	RealtorTitleMx  RealtorTitle = "Mx"
	RealtorTitleDr  RealtorTitle = "Dr"
)

// Realtor is the acting user: every unit and lease is owned by one realtor.
type Realtor struct {
	Base
	Email     string       `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string       `gorm:"not null" json:"first_name"`
	LastName  string       `gorm:"not null" json:"last_name"`
	Title     RealtorTitle `json:"title,omitempty"`
	Company   string       `json:"company,omitempty"`
	Website   string       `json:"website,omitempty"`
	Bio       string       `json:"bio,omitempty"`
	IsActive  bool         `gorm:"default:true" json:"is_active"`

	Units  []Unit  `gorm:"foreignKey:RealtorID" json:"-"`
	Leases []Lease `gorm:"foreignKey:RealtorID" json:"-"`
}

// Valid reports whether t is a recognized title.
func (t RealtorTitle) Valid() bool {
	switch t {
	case RealtorTitleMr, RealtorTitleMrs, RealtorTitleMs, RealtorTitleMx, RealtorTitleDr:
		return true
	}
	return false
}
