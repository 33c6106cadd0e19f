package models

// Unit is a rentable unit managed by a realtor.
type Unit struct {
	Base
	RealtorID      string `gorm:"type:uuid;not null;index" json:"realtor_id"`
	UnitIdentifier string `gorm:"not null" json:"unit_identifier"`
	Address        string `json:"address"`
	Bedrooms       int    `json:"bedrooms"`
	Bathrooms      int    `json:"bathrooms"`

	Leases []Lease `gorm:"foreignKey:UnitID" json:"-"`
}
