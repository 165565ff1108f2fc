package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateBatch = "batch created successfully"
	MessageSuccessUpdateBatch = "batch updated successfully"
	MessageSuccessDeleteBatch = "batch deleted successfully"
	MessageSuccessGetBatches  = "batches retrieved successfully"
	MessageSuccessGetItems    = "items retrieved successfully"
	MessageSuccessUpdateItem  = "item updated successfully"
	MessageSuccessGetStats    = "dashboard statistics retrieved successfully"

	MessageFailedCreateBatch = "failed to create batch"
	MessageFailedUpdateBatch = "failed to update batch"
	MessageFailedDeleteBatch = "failed to delete batch"
	MessageFailedGetBatches  = "failed to retrieve batches"
	MessageFailedGetItems    = "failed to retrieve items"
	MessageFailedUpdateItem  = "failed to update item"
	MessageFailedGetStats    = "failed to retrieve dashboard statistics"

	ErrBatchNotFound      = errors.New("batch not found")
	ErrBatchAlreadyExists = errors.New("batch number already exists in this category")
	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidScanState   = errors.New("invalid scan state")
)

type (
	CreateBatchRequest struct {
		BatchNumber string `json:"batch_number" validate:"required"`
		Category    string `json:"category" validate:"required"`
		DisplayName string `json:"display_name"`
		Notes       string `json:"notes"`
		ColorTag    string `json:"color_tag"`
		SubCategory string `json:"sub_category"`
	}

	UpdateBatchRequest struct {
		DisplayName     *string `json:"display_name"`
		Notes           *string `json:"notes"`
		ColorTag        *string `json:"color_tag"`
		SubCategory     *string `json:"sub_category"`
		Status          *string `json:"status" validate:"omitempty,oneof=active staged in_transit delivered"`
		PrepStarted     *bool   `json:"prep_started"`
		ReviewRequested *bool   `json:"review_requested"`
	}

	BatchResponse struct {
		ID              string     `json:"id"`
		BatchNumber     string     `json:"batch_number"`
		Category        string     `json:"category"`
		Status          string     `json:"status"`
		DisplayName     string     `json:"display_name,omitempty"`
		Notes           string     `json:"notes,omitempty"`
		ColorTag        string     `json:"color_tag,omitempty"`
		SubCategory     string     `json:"sub_category,omitempty"`
		PrepStarted     bool       `json:"prep_started"`
		ReviewRequested bool       `json:"review_requested"`
		FeedStatus      string     `json:"feed_status,omitempty"`
		CSOReference    string     `json:"cso_reference,omitempty"`
		Units           int        `json:"units"`
		Pricing         float64    `json:"pricing"`
		SubmittedDate   *time.Time `json:"submitted_date,omitempty"`
		ScannedAt       *time.Time `json:"scanned_at,omitempty"`
		ItemCount       int64      `json:"item_count"`
	}

	UpdateItemRequest struct {
		Notes        *string `json:"notes"`
		ManualStatus *string `json:"manual_status"`
		ScanState    *string `json:"scan_state" validate:"omitempty,oneof=scanned pending"`
	}

	ItemResponse struct {
		ID           string     `json:"id"`
		SerialNumber string     `json:"serial_number,omitempty"`
		Model        string     `json:"model"`
		Quantity     int        `json:"quantity"`
		Category     string     `json:"category"`
		ProductType  string     `json:"product_type"`
		BatchNumber  string     `json:"batch_number,omitempty"`
		ScanState    string     `json:"scan_state"`
		OrderRef     string     `json:"order_ref,omitempty"`
		FeedStatus   string     `json:"feed_status,omitempty"`
		Notes        string     `json:"notes,omitempty"`
		ManualStatus string     `json:"manual_status,omitempty"`
		OrphanedAt   *time.Time `json:"orphaned_at,omitempty"`
		CreatedAt    time.Time  `json:"created_at"`
	}

	ItemFilter struct {
		BatchNumber string
		ScanState   string
		Orphaned    bool
		Page        int
		Limit       int
	}

	CategoryStatsResponse struct {
		TotalItems    int64 `json:"total_items"`
		ScannedItems  int64 `json:"scanned_items"`
		PendingItems  int64 `json:"pending_items"`
		OrphanedItems int64 `json:"orphaned_items"`
		TotalBatches  int64 `json:"total_batches"`
		OpenConflicts int64 `json:"open_conflicts"`
	}
)
