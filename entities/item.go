package entities

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID  `gorm:"index" json:"tenant_id"`
	Category     string     `gorm:"index" json:"category"` // "as_is", "finished_goods", "local_stock", "parts"
	SerialNumber string     `gorm:"index" json:"serial_number,omitempty"`
	Model        string     `json:"model"`
	Quantity     int        `json:"quantity"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	ProductType  string     `json:"product_type"`
	BatchID      *uuid.UUID `json:"batch_id,omitempty"`
	ScanState    string     `json:"scan_state"` // "scanned", "pending"
	OrderRef     string     `json:"order_ref,omitempty"`

	// Feed pass-through, overwritten on every reconciliation.
	FeedStatus string  `json:"feed_status,omitempty"`
	UnitPrice  float64 `json:"unit_price,omitempty"`

	// User-edited, preserved across reconciliations.
	Notes        string `json:"notes,omitempty"`
	ManualStatus string `json:"manual_status,omitempty"`

	OrphanedAt *time.Time `json:"orphaned_at,omitempty"`

	Product *Product `gorm:"foreignKey:ProductID"`
	Batch   *Batch   `gorm:"foreignKey:BatchID"`
	Timestamp
}
