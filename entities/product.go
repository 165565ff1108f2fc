package entities

import (
	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Model       string    `gorm:"index" json:"model"`
	ProductType string    `json:"product_type"` // "appliance", "electronics", "furniture", "unknown"
	Description string    `json:"description,omitempty"`

	Timestamp
}
