package entities

import (
	"github.com/google/uuid"
)

type Conflict struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID           uuid.UUID `gorm:"index" json:"tenant_id"`
	Category           string    `gorm:"index" json:"category"`
	SerialNumber       string    `json:"serial_number"`
	LosingBatchNumber  string    `json:"losing_batch_number"`
	WinningBatchNumber string    `json:"winning_batch_number"`
	Status             string    `json:"status"` // "open", "resolved"

	Timestamp
}
