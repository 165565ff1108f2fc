package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessImport           = "feed imported successfully"
	MessageSuccessResync           = "category resynced successfully"
	MessageSuccessMergeBatches     = "batches merged successfully"
	MessageSuccessGetConflicts     = "conflicts retrieved successfully"
	MessageSuccessResolveConflict  = "conflict resolved successfully"
	MessagePartialReconcileFailure = "reconciliation completed with errors"

	MessageFailedImport          = "failed to import feed"
	MessageFailedResync          = "failed to resync category"
	MessageFailedMergeBatches    = "failed to merge batches"
	MessageFailedGetConflicts    = "failed to retrieve conflicts"
	MessageFailedResolveConflict = "failed to resolve conflict"

	ErrEmptyFeed            = errors.New("feed contains no batches")
	ErrConflictNotFound     = errors.New("conflict not found")
	ErrMergeNeedsSources    = errors.New("merge requires at least two source batches")
	ErrSourceBatchNotFound  = errors.New("source batch not found")
	ErrTargetBatchNotFound  = errors.New("target batch not found")
	ErrTargetBatchExists    = errors.New("target batch number already exists")
	ErrTargetIsSource       = errors.New("target batch cannot also be a source")
	ErrReconcileWriteFailed = errors.New("persistence write failed during reconciliation")
)

type (
	// FeedRow is one scanned inventory record as supplied by the external
	// feed. Column names and formats are feed-specific; nothing past the
	// normalizer ever sees this shape.
	FeedRow struct {
		OrderRef string `json:"order_ref"`
		Model    string `json:"model"`
		Serial   string `json:"serial"`
		Quantity string `json:"quantity"`
		Status   string `json:"status"`
		Price    string `json:"price"`
	}

	// FeedBatch groups the rows of one physical truck/load together with
	// the batch-level metadata mirrored onto the Batch entity.
	FeedBatch struct {
		BatchNumber   string    `json:"batch_number"`
		Status        string    `json:"status"`
		CSOReference  string    `json:"cso_reference"`
		Pricing       float64   `json:"pricing"`
		Units         int       `json:"units"`
		Notes         string    `json:"notes"`
		SubmittedDate string    `json:"submitted_date"` // feed format: YYYY/MM/DD HH:MM[:SS]
		ScannedAt     string    `json:"scanned_at"`
		Rows          []FeedRow `json:"rows"`

		// ReadErr is set by the feed adapter when this batch's source
		// could not be read. The batch is skipped and reported, the run
		// continues.
		ReadErr error `json:"-"`
	}

	ReconcileSummary struct {
		BatchesInFeed   int      `json:"batches_in_feed"`
		UniqueBatches   int      `json:"unique_batches"`
		NewBatches      int      `json:"new_batches"`
		UpdatedBatches  int      `json:"updated_batches"`
		ItemsProcessed  int      `json:"items_processed"`
		ItemsInserted   int      `json:"items_inserted"`
		ItemsUpdated    int      `json:"items_updated"`
		ItemsOrphaned   int      `json:"items_orphaned"`
		SerialsExcluded int      `json:"serials_excluded"`
		ConflictsLogged int      `json:"conflicts_logged"`
		Errors          []string `json:"errors,omitempty"`
	}

	ImportRequest struct {
		Category string      `json:"category" validate:"required"`
		Batches  []FeedBatch `json:"batches" validate:"required,min=1"`
	}

	ResyncRequest struct {
		Category         string      `json:"category" validate:"required"`
		PreserveMetadata bool        `json:"preserve_metadata"`
		Batches          []FeedBatch `json:"batches" validate:"required,min=1"`
	}

	MergeBatchesRequest struct {
		Category     string   `json:"category" validate:"required"`
		Sources      []string `json:"sources" validate:"required,min=2"`
		Target       string   `json:"target" validate:"required"`
		CreateTarget bool     `json:"create_target"`
	}

	ConflictResponse struct {
		ID                 string    `json:"id"`
		Category           string    `json:"category"`
		SerialNumber       string    `json:"serial_number"`
		LosingBatchNumber  string    `json:"losing_batch_number"`
		WinningBatchNumber string    `json:"winning_batch_number"`
		Status             string    `json:"status"`
		CreatedAt          time.Time `json:"created_at"`
	}
)
