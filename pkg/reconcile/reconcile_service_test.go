package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/whaleen/warehouse-sub000/domain"
	"github.com/whaleen/warehouse-sub000/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReconcileTest(t *testing.T) (*gorm.DB, ReconcileService, domain.Scope) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.Batch{},
		&entities.Item{},
		&entities.Conflict{},
		&entities.ItemChangeLog{},
	))

	repository := NewReconcileRepository(db)
	service := NewReconcileService(repository, nil)
	scope := domain.Scope{TenantID: uuid.New(), Category: domain.CategoryFinishedGoods}
	return db, service, scope
}

func feedBatch(number, scannedAt string, rows ...domain.FeedRow) domain.FeedBatch {
	return domain.FeedBatch{
		BatchNumber: number,
		Status:      "in_transit",
		ScannedAt:   scannedAt,
		Rows:        rows,
	}
}

func serialRow(serial string) domain.FeedRow {
	return domain.FeedRow{Serial: serial, Model: "WM-200", Quantity: "1"}
}

func loadItems(t *testing.T, db *gorm.DB, scope domain.Scope) []entities.Item {
	var items []entities.Item
	require.NoError(t, db.
		Where("tenant_id = ? AND category = ?", scope.TenantID, scope.Category).
		Order("serial_number asc").
		Find(&items).Error)
	return items
}

func loadBatch(t *testing.T, db *gorm.DB, scope domain.Scope, number string) *entities.Batch {
	var batch entities.Batch
	err := db.
		Where("tenant_id = ? AND category = ? AND batch_number = ?", scope.TenantID, scope.Category, number).
		First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	require.NoError(t, err)
	return &batch
}

func TestRunEmptyFeed(t *testing.T) {
	_, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyFeed)
}

func TestRunInsertsNewItemsAndBatches(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	feed := []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 08:00", serialRow("SN-1"), serialRow("SN-2")),
		feedBatch("L-2", "2026/01/05 09:00", serialRow("SN-3"), domain.FeedRow{Model: "DR-900", Quantity: "4"}),
	}

	summary, err := service.Run(context.Background(), scope, feed)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.BatchesInFeed)
	assert.Equal(t, 2, summary.UniqueBatches)
	assert.Equal(t, 2, summary.NewBatches)
	assert.Equal(t, 4, summary.ItemsProcessed)
	assert.Equal(t, 4, summary.ItemsInserted)
	assert.Equal(t, 0, summary.ItemsUpdated)
	assert.Equal(t, 0, summary.ConflictsLogged)

	items := loadItems(t, db, scope)
	require.Len(t, items, 4)
	for _, item := range items {
		assert.Equal(t, "scanned", item.ScanState)
		require.NotNil(t, item.BatchID)
	}

	batch := loadBatch(t, db, scope, "L-1")
	require.NotNil(t, batch)
	assert.Equal(t, "active", batch.Status)
	assert.Equal(t, "in_transit", batch.FeedStatus)
	require.NotNil(t, batch.ScannedAt)
}

func TestRunDuplicateSerialAssignsFreshestBatch(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	feed := []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
		feedBatch("L-2", "2026/01/05 11:00", serialRow("SN-1")),
	}

	summary, err := service.Run(context.Background(), scope, feed)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemsInserted)
	assert.Equal(t, 1, summary.ConflictsLogged)

	items := loadItems(t, db, scope)
	require.Len(t, items, 1)
	winner := loadBatch(t, db, scope, "L-2")
	require.NotNil(t, winner)
	assert.Equal(t, winner.ID, *items[0].BatchID)

	var conflicts []entities.Conflict
	require.NoError(t, db.Where("tenant_id = ?", scope.TenantID).Find(&conflicts).Error)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "SN-1", conflicts[0].SerialNumber)
	assert.Equal(t, "L-1", conflicts[0].LosingBatchNumber)
	assert.Equal(t, "L-2", conflicts[0].WinningBatchNumber)
	assert.Equal(t, "open", conflicts[0].Status)
}

func TestRunReplacesConflictsOnRerun(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	conflicting := []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
		feedBatch("L-2", "2026/01/05 11:00", serialRow("SN-1")),
	}
	_, err := service.Run(context.Background(), scope, conflicting)
	require.NoError(t, err)

	// Second pass still has the duplicate: the conflict set is replaced, not
	// accumulated.
	_, err = service.Run(context.Background(), scope, conflicting)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&entities.Conflict{}).Where("tenant_id = ?", scope.TenantID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Third pass resolves the duplicate at the source; the stale conflict is
	// cleared.
	resolved := []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00"),
		feedBatch("L-2", "2026/01/05 11:00", serialRow("SN-1")),
	}
	_, err = service.Run(context.Background(), scope, resolved)
	require.NoError(t, err)

	require.NoError(t, db.Model(&entities.Conflict{}).Where("tenant_id = ?", scope.TenantID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRunPreservesIdentityAndUserEdits(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
	})
	require.NoError(t, err)

	items := loadItems(t, db, scope)
	require.Len(t, items, 1)
	originalID := items[0].ID

	require.NoError(t, db.Model(&entities.Item{}).Where("id = ?", originalID).
		Updates(map[string]interface{}{"notes": "inspected by Dana", "manual_status": "hold"}).Error)

	// The serial moves to a newer batch with a different model.
	_, err = service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-2", "2026/01/06 10:00", domain.FeedRow{Serial: "SN-1", Model: "WM-300", Quantity: "1"}),
	})
	require.NoError(t, err)

	items = loadItems(t, db, scope)
	require.Len(t, items, 1)
	assert.Equal(t, originalID, items[0].ID)
	assert.Equal(t, "WM-300", items[0].Model)
	assert.Equal(t, "inspected by Dana", items[0].Notes)
	assert.Equal(t, "hold", items[0].ManualStatus)

	newBatch := loadBatch(t, db, scope, "L-2")
	require.NotNil(t, newBatch)
	assert.Equal(t, newBatch.ID, *items[0].BatchID)
}

func TestRunOrphansAndRecovers(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1"), serialRow("SN-2")),
	})
	require.NoError(t, err)

	// SN-2 disappears from the feed.
	summary, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/06 10:00", serialRow("SN-1")),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemsOrphaned)

	items := loadItems(t, db, scope)
	require.Len(t, items, 2)
	var orphan entities.Item
	require.NoError(t, db.Where("serial_number = ?", "SN-2").First(&orphan).Error)
	assert.Nil(t, orphan.BatchID)
	require.NotNil(t, orphan.OrphanedAt)

	// SN-2 reappears: same row is reassigned and the orphan mark cleared.
	_, err = service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/07 10:00", serialRow("SN-1"), serialRow("SN-2")),
	})
	require.NoError(t, err)

	var recovered entities.Item
	require.NoError(t, db.Where("serial_number = ?", "SN-2").First(&recovered).Error)
	assert.Equal(t, orphan.ID, recovered.ID)
	assert.Nil(t, recovered.OrphanedAt)
	require.NotNil(t, recovered.BatchID)
}

func TestRunExcludesSerialsClaimedByOtherCategory(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	claimed := entities.Item{
		ID:           uuid.New(),
		TenantID:     scope.TenantID,
		Category:     domain.CategoryParts,
		SerialNumber: "SN-X",
		ScanState:    "scanned",
	}
	require.NoError(t, db.Create(&claimed).Error)

	feed := []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-X"), serialRow("SN-1")),
		feedBatch("L-2", "2026/01/05 11:00", serialRow("SN-X")),
	}
	summary, err := service.Run(context.Background(), scope, feed)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SerialsExcluded)
	// Exclusion outranks conflict recording: the cross-category duplicate
	// leaves no conflict behind.
	assert.Equal(t, 0, summary.ConflictsLogged)

	items := loadItems(t, db, scope)
	require.Len(t, items, 1)
	assert.Equal(t, "SN-1", items[0].SerialNumber)

	var other entities.Item
	require.NoError(t, db.Where("serial_number = ? AND category = ?", "SN-X", domain.CategoryParts).First(&other).Error)
	assert.Equal(t, claimed.ID, other.ID)
}

func TestRunUnreadableBatchKeepsItsItems(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
	})
	require.NoError(t, err)

	broken := feedBatch("L-1", "2026/01/06 10:00")
	broken.ReadErr = errors.New("read header: unexpected EOF")

	summary, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		broken,
		feedBatch("L-2", "2026/01/06 11:00", serialRow("SN-2")),
	})
	require.NoError(t, err)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "L-1")
	assert.Equal(t, 0, summary.ItemsOrphaned)

	var item entities.Item
	require.NoError(t, db.Where("serial_number = ?", "SN-1").First(&item).Error)
	require.NotNil(t, item.BatchID)
	assert.Nil(t, item.OrphanedAt)
}

func TestRunSerialLessRowsInsertIndependently(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	feed := []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00",
			domain.FeedRow{Model: "DR-900", Quantity: "3"},
			domain.FeedRow{Model: "DR-900", Quantity: "3"},
		),
	}
	summary, err := service.Run(context.Background(), scope, feed)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ItemsInserted)

	items := loadItems(t, db, scope)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestResyncPreservesBatchMetadata(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
	})
	require.NoError(t, err)

	batch := loadBatch(t, db, scope, "L-1")
	require.NotNil(t, batch)
	require.NoError(t, db.Model(&entities.Batch{}).Where("id = ?", batch.ID).
		Updates(map[string]interface{}{
			"display_name": "Dock 4 load",
			"notes":        "recount before shipping",
			"color_tag":    "amber",
			"prep_started": true,
		}).Error)

	summary, err := service.Resync(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/08 10:00", serialRow("SN-1"), serialRow("SN-2")),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ItemsInserted)

	rebuilt := loadBatch(t, db, scope, "L-1")
	require.NotNil(t, rebuilt)
	assert.NotEqual(t, batch.ID, rebuilt.ID)
	assert.Equal(t, "Dock 4 load", rebuilt.DisplayName)
	assert.Equal(t, "recount before shipping", rebuilt.Notes)
	assert.Equal(t, "amber", rebuilt.ColorTag)
	assert.True(t, rebuilt.PrepStarted)
	require.NotNil(t, rebuilt.ScannedAt)
}

func TestResyncWithoutPreserveDropsMetadata(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
	})
	require.NoError(t, err)

	batch := loadBatch(t, db, scope, "L-1")
	require.NotNil(t, batch)
	require.NoError(t, db.Model(&entities.Batch{}).Where("id = ?", batch.ID).
		Update("display_name", "Dock 4 load").Error)

	_, err = service.Resync(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/08 10:00", serialRow("SN-1")),
	}, false)
	require.NoError(t, err)

	rebuilt := loadBatch(t, db, scope, "L-1")
	require.NotNil(t, rebuilt)
	assert.Empty(t, rebuilt.DisplayName)
}

func TestResyncDropsSnapshotsForVanishedBatches(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
	})
	require.NoError(t, err)

	batch := loadBatch(t, db, scope, "L-1")
	require.NotNil(t, batch)
	require.NoError(t, db.Model(&entities.Batch{}).Where("id = ?", batch.ID).
		Update("display_name", "Dock 4 load").Error)

	// L-1 is gone from the new feed; its snapshot is discarded.
	_, err = service.Resync(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-2", "2026/01/08 10:00", serialRow("SN-2")),
	}, true)
	require.NoError(t, err)

	assert.Nil(t, loadBatch(t, db, scope, "L-1"))
	replacement := loadBatch(t, db, scope, "L-2")
	require.NotNil(t, replacement)
	assert.Empty(t, replacement.DisplayName)
}

func TestResyncIsScopedToOneCategory(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	otherScope := domain.Scope{TenantID: scope.TenantID, Category: domain.CategoryParts}
	_, err := service.Run(context.Background(), otherScope, []domain.FeedBatch{
		feedBatch("P-1", "2026/01/05 10:00", serialRow("SN-P")),
	})
	require.NoError(t, err)

	_, err = service.Resync(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/08 10:00", serialRow("SN-1")),
	}, false)
	require.NoError(t, err)

	untouched := loadItems(t, db, otherScope)
	require.Len(t, untouched, 1)
	assert.Equal(t, "SN-P", untouched[0].SerialNumber)
}

func TestMergeBatchesIntoExistingTarget(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
		feedBatch("L-2", "2026/01/05 11:00", serialRow("SN-2")),
		feedBatch("L-3", "2026/01/05 12:00", serialRow("SN-3")),
	})
	require.NoError(t, err)

	err = service.MergeBatches(context.Background(), scope, domain.MergeBatchesRequest{
		Sources: []string{"L-1", "L-2"},
		Target:  "L-3",
	})
	require.NoError(t, err)

	assert.Nil(t, loadBatch(t, db, scope, "L-1"))
	assert.Nil(t, loadBatch(t, db, scope, "L-2"))
	target := loadBatch(t, db, scope, "L-3")
	require.NotNil(t, target)

	items := loadItems(t, db, scope)
	require.Len(t, items, 3)
	for _, item := range items {
		require.NotNil(t, item.BatchID)
		assert.Equal(t, target.ID, *item.BatchID)
	}
}

func TestMergeBatchesCreatesTarget(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
		feedBatch("L-2", "2026/01/05 11:00", serialRow("SN-2")),
	})
	require.NoError(t, err)

	err = service.MergeBatches(context.Background(), scope, domain.MergeBatchesRequest{
		Sources:      []string{"L-1", "L-2"},
		Target:       "L-MERGED",
		CreateTarget: true,
	})
	require.NoError(t, err)

	target := loadBatch(t, db, scope, "L-MERGED")
	require.NotNil(t, target)
	assert.Equal(t, "active", target.Status)

	items := loadItems(t, db, scope)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, target.ID, *item.BatchID)
	}
}

func TestMergeBatchesPreconditions(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
		feedBatch("L-2", "2026/01/05 11:00", serialRow("SN-2")),
		feedBatch("L-3", "2026/01/05 12:00", serialRow("SN-3")),
	})
	require.NoError(t, err)

	ctx := context.Background()

	err = service.MergeBatches(ctx, scope, domain.MergeBatchesRequest{
		Sources: []string{"L-1"}, Target: "L-3",
	})
	assert.ErrorIs(t, err, domain.ErrMergeNeedsSources)

	err = service.MergeBatches(ctx, scope, domain.MergeBatchesRequest{
		Sources: []string{"L-1", "L-3"}, Target: "L-3",
	})
	assert.ErrorIs(t, err, domain.ErrTargetIsSource)

	err = service.MergeBatches(ctx, scope, domain.MergeBatchesRequest{
		Sources: []string{"L-1", "L-404"}, Target: "L-3",
	})
	assert.ErrorIs(t, err, domain.ErrSourceBatchNotFound)

	err = service.MergeBatches(ctx, scope, domain.MergeBatchesRequest{
		Sources: []string{"L-1", "L-2"}, Target: "L-404",
	})
	assert.ErrorIs(t, err, domain.ErrTargetBatchNotFound)

	err = service.MergeBatches(ctx, scope, domain.MergeBatchesRequest{
		Sources: []string{"L-1", "L-2"}, Target: "L-3", CreateTarget: true,
	})
	assert.ErrorIs(t, err, domain.ErrTargetBatchExists)

	// Every failed precondition left the store untouched.
	for _, number := range []string{"L-1", "L-2", "L-3"} {
		require.NotNil(t, loadBatch(t, db, scope, number))
	}
	items := loadItems(t, db, scope)
	require.Len(t, items, 3)
	batchIDs := make(map[uuid.UUID]struct{})
	for _, item := range items {
		require.NotNil(t, item.BatchID)
		batchIDs[*item.BatchID] = struct{}{}
	}
	assert.Len(t, batchIDs, 3)
}

func TestRunStoreFailureStillReportsSummary(t *testing.T) {
	db, service, scope := setupReconcileTest(t)
	require.NoError(t, db.Migrator().DropTable(&entities.Item{}))

	summary, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
	})
	require.Error(t, err)

	// Feed-derived counts survive the failure; the store error is reported
	// alongside them. The cross-category read fails before any batch write,
	// so nothing is committed.
	assert.Equal(t, 1, summary.BatchesInFeed)
	assert.Equal(t, 1, summary.UniqueBatches)
	assert.Equal(t, 1, summary.ItemsProcessed)
	assert.Equal(t, 0, summary.ItemsInserted)
	require.NotEmpty(t, summary.Errors)
	assert.Nil(t, loadBatch(t, db, scope, "L-1"))
}

func TestRunFailureKeepsEarlierCommittedWrites(t *testing.T) {
	db, service, scope := setupReconcileTest(t)
	require.NoError(t, db.Migrator().DropTable(&entities.Conflict{}))

	summary, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
	})
	require.Error(t, err)
	require.NotEmpty(t, summary.Errors)

	// The batch upsert committed before the conflict phase failed and is not
	// rolled back; the item phase never ran.
	assert.Equal(t, 1, summary.NewBatches)
	assert.Equal(t, 0, summary.ItemsInserted)
	require.NotNil(t, loadBatch(t, db, scope, "L-1"))
	assert.Empty(t, loadItems(t, db, scope))
}

func TestRunItemWritePhaseFailure(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
	})
	require.NoError(t, err)

	// The reassignment pass updates the item and then fails appending its
	// change log. Completed phases keep their counts; the failed write
	// surfaces as the write-failure sentinel.
	require.NoError(t, db.Migrator().DropTable(&entities.ItemChangeLog{}))

	summary, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-2", "2026/01/06 10:00", serialRow("SN-1")),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReconcileWriteFailed)
	assert.Equal(t, 1, summary.ItemsUpdated)
	require.NotEmpty(t, summary.Errors)

	newBatch := loadBatch(t, db, scope, "L-2")
	require.NotNil(t, newBatch)
	var item entities.Item
	require.NoError(t, db.Where("serial_number = ?", "SN-1").First(&item).Error)
	require.NotNil(t, item.BatchID)
	assert.Equal(t, newBatch.ID, *item.BatchID)
}

func TestMergeBatchesDeduplicatesSources(t *testing.T) {
	db, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
		feedBatch("L-2", "2026/01/05 11:00", serialRow("SN-2")),
		feedBatch("L-3", "2026/01/05 12:00", serialRow("SN-3")),
	})
	require.NoError(t, err)

	// One batch listed twice is one source, not two.
	err = service.MergeBatches(context.Background(), scope, domain.MergeBatchesRequest{
		Sources: []string{"L-1", "L-1"}, Target: "L-3",
	})
	assert.ErrorIs(t, err, domain.ErrMergeNeedsSources)
	require.NotNil(t, loadBatch(t, db, scope, "L-1"))

	// A repeated entry alongside a second distinct source merges normally.
	err = service.MergeBatches(context.Background(), scope, domain.MergeBatchesRequest{
		Sources: []string{"L-1", "L-1", "L-2"}, Target: "L-3",
	})
	require.NoError(t, err)

	assert.Nil(t, loadBatch(t, db, scope, "L-1"))
	assert.Nil(t, loadBatch(t, db, scope, "L-2"))
	target := loadBatch(t, db, scope, "L-3")
	require.NotNil(t, target)

	items := loadItems(t, db, scope)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, target.ID, *item.BatchID)
	}
}

func TestGetAndResolveConflicts(t *testing.T) {
	_, service, scope := setupReconcileTest(t)

	_, err := service.Run(context.Background(), scope, []domain.FeedBatch{
		feedBatch("L-1", "2026/01/05 10:00", serialRow("SN-1")),
		feedBatch("L-2", "2026/01/05 11:00", serialRow("SN-1")),
	})
	require.NoError(t, err)

	open, err := service.GetConflicts(context.Background(), scope, "open")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "SN-1", open[0].SerialNumber)

	err = service.ResolveConflict(context.Background(), scope, open[0].ID)
	require.NoError(t, err)

	open, err = service.GetConflicts(context.Background(), scope, "open")
	require.NoError(t, err)
	assert.Empty(t, open)

	all, err := service.GetConflicts(context.Background(), scope, "all")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "resolved", all[0].Status)
}

func TestResolveConflictErrors(t *testing.T) {
	_, service, scope := setupReconcileTest(t)

	err := service.ResolveConflict(context.Background(), scope, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)

	err = service.ResolveConflict(context.Background(), scope, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrConflictNotFound)
}
