package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/whaleen/warehouse-sub000/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	refs map[string]domain.ProductRef
}

func (s *stubCatalog) Lookup(_ context.Context, _ uuid.UUID, model string) (*domain.ProductRef, error) {
	if ref, ok := s.refs[model]; ok {
		return &ref, nil
	}
	return nil, nil
}

func TestParseFeedTime(t *testing.T) {
	full := parseFeedTime("2026/03/14 09:30:15")
	assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 15, 0, time.UTC), full)

	noSecs := parseFeedTime("2026/03/14 09:30")
	assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), noSecs)

	dateOnly := parseFeedTime("2026/03/14")
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), dateOnly)

	assert.True(t, parseFeedTime("").IsZero())
	assert.True(t, parseFeedTime("not a date").IsZero())
	assert.True(t, parseFeedTime("14-03-2026").IsZero())
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 3, parseQuantity("3"))
	assert.Equal(t, 3, parseQuantity(" 3 "))
	assert.Equal(t, 1, parseQuantity(""))
	assert.Equal(t, 1, parseQuantity("abc"))
	assert.Equal(t, 1, parseQuantity("0"))
	assert.Equal(t, 1, parseQuantity("-2"))
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 19.99, parsePrice("19.99"))
	assert.Equal(t, 0.0, parsePrice(""))
	assert.Equal(t, 0.0, parsePrice("free"))
	assert.Equal(t, 0.0, parsePrice("-5"))
}

func TestNormalizeBatchTrimsAndDefaults(t *testing.T) {
	batch := domain.FeedBatch{
		BatchNumber: "L-100",
		ScannedAt:   "2026/01/05 08:00",
		Rows: []domain.FeedRow{
			{OrderRef: " ORD-1 ", Model: " WM-200 ", Serial: " SN-1 ", Quantity: "bad", Status: "ok", Price: "12.50"},
		},
	}

	records, err := normalizeBatch(context.Background(), uuid.New(), batch, 4, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "SN-1", record.Serial)
	assert.Equal(t, "WM-200", record.Model)
	assert.Equal(t, "ORD-1", record.OrderRef)
	assert.Equal(t, 1, record.Quantity)
	assert.Equal(t, 12.50, record.UnitPrice)
	assert.Equal(t, domain.ProductTypeUnknown, record.ProductType)
	assert.Nil(t, record.ProductID)
	assert.Equal(t, "L-100", record.BatchNumber)
	assert.Equal(t, 4, record.BatchIngestRank)
	assert.Equal(t, time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC), record.BatchTimestamp)
}

func TestNormalizeBatchCatalogMatch(t *testing.T) {
	productID := uuid.New()
	catalog := &stubCatalog{refs: map[string]domain.ProductRef{
		"WM-200": {ID: productID.String(), ProductType: "washer"},
	}}

	batch := domain.FeedBatch{
		BatchNumber: "L-100",
		Rows: []domain.FeedRow{
			{Model: "WM-200", Serial: "SN-1"},
			{Model: "DR-900", Serial: "SN-2"},
		},
	}

	records, err := normalizeBatch(context.Background(), uuid.New(), batch, 0, catalog)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "washer", records[0].ProductType)
	require.NotNil(t, records[0].ProductID)
	assert.Equal(t, productID, *records[0].ProductID)

	// Unmatched model keeps the unknown type and never fails ingestion.
	assert.Equal(t, domain.ProductTypeUnknown, records[1].ProductType)
	assert.Nil(t, records[1].ProductID)
}

func TestNormalizeBatchUnparsableTimestampIsOldest(t *testing.T) {
	batch := domain.FeedBatch{
		BatchNumber: "L-100",
		ScannedAt:   "garbage",
		Rows:        []domain.FeedRow{{Serial: "SN-1"}},
	}

	records, err := normalizeBatch(context.Background(), uuid.New(), batch, 0, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].BatchTimestamp.IsZero())
}
