package models

// AuditLog records realtor operations that change leases, tenants and payments.
type AuditLog struct {
	Base
	RealtorID    string `gorm:"type:uuid;not null;index" json:"realtor_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null;index:idx_audit_logs_resource" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid;index:idx_audit_logs_resource" json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
