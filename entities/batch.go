package entities

import (
	"time"

	"github.com/google/uuid"
)

type Batch struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID `gorm:"uniqueIndex:idx_batches_scope_number" json:"tenant_id"`
	Category    string    `gorm:"uniqueIndex:idx_batches_scope_number" json:"category"`
	BatchNumber string    `gorm:"uniqueIndex:idx_batches_scope_number" json:"batch_number"`
	Status      string    `json:"status"` // "active", "staged", "in_transit", "delivered"

	// User-edited fields, preserved across a destructive resync.
	DisplayName     string `json:"display_name,omitempty"`
	Notes           string `json:"notes,omitempty"`
	ColorTag        string `json:"color_tag,omitempty"`
	SubCategory     string `json:"sub_category,omitempty"`
	PrepStarted     bool   `json:"prep_started"`
	ReviewRequested bool   `json:"review_requested"`

	// Mirrored from the feed, overwritten on every reconciliation.
	FeedStatus    string     `json:"feed_status,omitempty"`
	CSOReference  string     `json:"cso_reference,omitempty"`
	Units         int        `json:"units"`
	Pricing       float64    `json:"pricing"`
	FeedNotes     string     `json:"feed_notes,omitempty"`
	SubmittedDate *time.Time `json:"submitted_date,omitempty"`
	ScannedAt     *time.Time `json:"scanned_at,omitempty"`

	Items []*Item `gorm:"foreignKey:BatchID"`
	Timestamp
}
