package reconcile

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/whaleen/warehouse-sub000/domain"

	"github.com/google/uuid"
)

// CatalogLookup resolves a feed model string to a catalog product. A miss
// returns (nil, nil); ingestion never fails on an unmatched catalog entry.
type CatalogLookup interface {
	Lookup(ctx context.Context, tenantID uuid.UUID, model string) (*domain.ProductRef, error)
}

// NormalizedRecord is the uniform shape every feed row is reduced to at the
// ingestion boundary. Nothing downstream of the normalizer ever sees a raw
// feed row.
type NormalizedRecord struct {
	Serial      string
	Model       string
	Quantity    int
	ProductID   *uuid.UUID
	ProductType string
	OrderRef    string
	FeedStatus  string
	UnitPrice   float64

	BatchNumber     string
	BatchIngestRank int
	BatchTimestamp  time.Time
}

const (
	feedTimeLayout        = "2006/01/02 15:04:05"
	feedTimeLayoutNoSecs  = "2006/01/02 15:04"
	feedTimeLayoutDateFmt = "2006/01/02"
)

// parseFeedTime parses the feed's YYYY/MM/DD HH:MM[:SS] timestamp format.
// Absent or unparsable values normalize to the zero time, which sorts as
// "oldest" during canonicalization.
func parseFeedTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{feedTimeLayout, feedTimeLayoutNoSecs, feedTimeLayoutDateFmt} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseQuantity defaults invalid or non-positive quantities to 1.
func parseQuantity(value string) int {
	qty, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || qty <= 0 {
		return 1
	}
	return qty
}

func parsePrice(value string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}

// normalizeBatch converts one feed batch into normalized records. rank is the
// batch's position in the combined feed input, assigned before any sorting;
// it is used only as the canonicalization tie-break.
func normalizeBatch(ctx context.Context, tenantID uuid.UUID, batch domain.FeedBatch, rank int, catalog CatalogLookup) ([]NormalizedRecord, error) {
	batchTime := parseFeedTime(batch.ScannedAt)

	records := make([]NormalizedRecord, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		record := NormalizedRecord{
			Serial:          strings.TrimSpace(row.Serial),
			Model:           strings.TrimSpace(row.Model),
			Quantity:        parseQuantity(row.Quantity),
			ProductType:     domain.ProductTypeUnknown,
			OrderRef:        strings.TrimSpace(row.OrderRef),
			FeedStatus:      strings.TrimSpace(row.Status),
			UnitPrice:       parsePrice(row.Price),
			BatchNumber:     batch.BatchNumber,
			BatchIngestRank: rank,
			BatchTimestamp:  batchTime,
		}

		if record.Model != "" && catalog != nil {
			ref, err := catalog.Lookup(ctx, tenantID, record.Model)
			if err != nil {
				return nil, err
			}
			if ref != nil {
				record.ProductType = ref.ProductType
				if id, parseErr := uuid.Parse(ref.ID); parseErr == nil {
					record.ProductID = &id
				}
			}
		}

		records = append(records, record)
	}
	return records, nil
}
