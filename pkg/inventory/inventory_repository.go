package inventory

import (
	"context"

	"github.com/whaleen/warehouse-sub000/domain"
	"github.com/whaleen/warehouse-sub000/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	InventoryRepository interface {
		CreateBatch(ctx context.Context, batch *entities.Batch) error
		GetBatchByNumber(ctx context.Context, scope domain.Scope, number string) (*entities.Batch, error)
		GetBatches(ctx context.Context, scope domain.Scope, page, limit int) ([]*entities.Batch, int64, error)
		UpdateBatchFields(ctx context.Context, batchID uuid.UUID, fields map[string]interface{}) error
		DeleteBatch(ctx context.Context, batch *entities.Batch) error
		CountBatchItems(ctx context.Context, batchID uuid.UUID) (int64, error)

		GetItemByID(ctx context.Context, id string) (*entities.Item, error)
		GetItems(ctx context.Context, scope domain.Scope, filter domain.ItemFilter) ([]*entities.Item, int64, error)
		UpdateItemFields(ctx context.Context, itemID uuid.UUID, fields map[string]interface{}) error

		GetCategoryStats(ctx context.Context, scope domain.Scope) (domain.CategoryStatsResponse, error)
	}

	inventoryRepository struct {
		db *gorm.DB
	}
)

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) scoped(ctx context.Context, scope domain.Scope) *gorm.DB {
	return r.db.WithContext(ctx).Where("tenant_id = ? AND category = ?", scope.TenantID, scope.Category)
}

func (r *inventoryRepository) CreateBatch(ctx context.Context, batch *entities.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *inventoryRepository) GetBatchByNumber(ctx context.Context, scope domain.Scope, number string) (*entities.Batch, error) {
	var batch entities.Batch
	if err := r.scoped(ctx, scope).Where("batch_number = ?", number).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *inventoryRepository) GetBatches(ctx context.Context, scope domain.Scope, page, limit int) ([]*entities.Batch, int64, error) {
	var batches []*entities.Batch
	var count int64

	offset := (page - 1) * limit

	if err := r.scoped(ctx, scope).Model(&entities.Batch{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.scoped(ctx, scope).Offset(offset).Limit(limit).Order("batch_number asc").Find(&batches).Error; err != nil {
		return nil, 0, err
	}

	return batches, count, nil
}

func (r *inventoryRepository) UpdateBatchFields(ctx context.Context, batchID uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entities.Batch{}).
		Where("id = ?", batchID).
		Updates(fields).Error
}

// DeleteBatch unassigns the batch's items before removing the batch row.
// Items are never deleted along with their batch.
func (r *inventoryRepository) DeleteBatch(ctx context.Context, batch *entities.Batch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Item{}).
			Where("batch_id = ?", batch.ID).
			Updates(map[string]interface{}{"batch_id": nil}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(batch).Error
	})
}

func (r *inventoryRepository) CountBatchItems(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Item{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *inventoryRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).Preload("Batch").Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) GetItems(ctx context.Context, scope domain.Scope, filter domain.ItemFilter) ([]*entities.Item, int64, error) {
	var items []*entities.Item
	var count int64

	query := r.scoped(ctx, scope).Preload("Batch")

	if filter.BatchNumber != "" {
		query = query.Joins("JOIN batches ON batches.id = items.batch_id").
			Where("batches.batch_number = ?", filter.BatchNumber)
	}
	if filter.ScanState != "" && filter.ScanState != "all" {
		query = query.Where("items.scan_state = ?", filter.ScanState)
	}
	if filter.Orphaned {
		query = query.Where("items.batch_id IS NULL")
	}

	if err := query.Model(&entities.Item{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Offset(offset).Limit(filter.Limit).Order("items.created_at desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *inventoryRepository) UpdateItemFields(ctx context.Context, itemID uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entities.Item{}).
		Where("id = ?", itemID).
		Updates(fields).Error
}

func (r *inventoryRepository) GetCategoryStats(ctx context.Context, scope domain.Scope) (domain.CategoryStatsResponse, error) {
	var stats domain.CategoryStatsResponse

	if err := r.scoped(ctx, scope).Model(&entities.Item{}).Count(&stats.TotalItems).Error; err != nil {
		return stats, err
	}
	if err := r.scoped(ctx, scope).Model(&entities.Item{}).Where("scan_state = ?", "scanned").Count(&stats.ScannedItems).Error; err != nil {
		return stats, err
	}
	if err := r.scoped(ctx, scope).Model(&entities.Item{}).Where("scan_state = ?", "pending").Count(&stats.PendingItems).Error; err != nil {
		return stats, err
	}
	if err := r.scoped(ctx, scope).Model(&entities.Item{}).Where("batch_id IS NULL").Count(&stats.OrphanedItems).Error; err != nil {
		return stats, err
	}
	if err := r.scoped(ctx, scope).Model(&entities.Batch{}).Count(&stats.TotalBatches).Error; err != nil {
		return stats, err
	}
	if err := r.scoped(ctx, scope).Model(&entities.Conflict{}).Where("status = ?", "open").Count(&stats.OpenConflicts).Error; err != nil {
		return stats, err
	}

	return stats, nil
}
