package entities

import (
	"github.com/google/uuid"
)

// ItemChangeLog is derived history written by reconciliation and merge
// operations. It is wiped together with the rest of a category's data on a
// destructive resync.
type ItemChangeLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID  `gorm:"index" json:"tenant_id"`
	Category     string     `gorm:"index" json:"category"`
	ItemID       *uuid.UUID `json:"item_id,omitempty"`
	SerialNumber string     `json:"serial_number,omitempty"`
	Action       string     `json:"action"` // "created", "updated", "orphaned", "reassigned"
	Detail       string     `json:"detail,omitempty"`

	Timestamp
}
