package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/whaleen/warehouse-sub000/domain"
	"github.com/whaleen/warehouse-sub000/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// writeChunkSize bounds every bulk read and write issued against the store.
const writeChunkSize = 500

type (
	ReconcileRepository interface {
		GetBatchByNumber(ctx context.Context, scope domain.Scope, number string) (*entities.Batch, error)
		CreateBatch(ctx context.Context, batch *entities.Batch) error
		ListBatches(ctx context.Context, scope domain.Scope) ([]*entities.Batch, error)
		UpdateBatchFields(ctx context.Context, batchID uuid.UUID, fields map[string]interface{}) error

		ListSerialedItems(ctx context.Context, scope domain.Scope) ([]*entities.Item, error)
		SerialsClaimedOutside(ctx context.Context, scope domain.Scope, serials []string) ([]string, error)
		CreateItems(ctx context.Context, items []*entities.Item) error
		SaveItems(ctx context.Context, items []*entities.Item) error
		OrphanItems(ctx context.Context, ids []uuid.UUID, at time.Time) error

		DeleteConflicts(ctx context.Context, scope domain.Scope, batchNumbers []string) error
		CreateConflicts(ctx context.Context, conflicts []*entities.Conflict) error
		ListConflicts(ctx context.Context, scope domain.Scope, status string) ([]*entities.Conflict, error)
		ResolveConflict(ctx context.Context, scope domain.Scope, id string) error

		AppendChangeLogs(ctx context.Context, logs []*entities.ItemChangeLog) error
		DeleteCategoryData(ctx context.Context, scope domain.Scope) error

		MergeBatches(ctx context.Context, scope domain.Scope, sources []string, target string, createTarget bool) error
	}

	reconcileRepository struct {
		db *gorm.DB
	}
)

func NewReconcileRepository(db *gorm.DB) ReconcileRepository {
	return &reconcileRepository{db: db}
}

func chunked(values []string, size int) [][]string {
	var chunks [][]string
	for len(values) > size {
		chunks = append(chunks, values[:size])
		values = values[size:]
	}
	if len(values) > 0 {
		chunks = append(chunks, values)
	}
	return chunks
}

func (r *reconcileRepository) scoped(ctx context.Context, scope domain.Scope) *gorm.DB {
	return r.db.WithContext(ctx).Where("tenant_id = ? AND category = ?", scope.TenantID, scope.Category)
}

func (r *reconcileRepository) GetBatchByNumber(ctx context.Context, scope domain.Scope, number string) (*entities.Batch, error) {
	var batch entities.Batch
	if err := r.scoped(ctx, scope).Where("batch_number = ?", number).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *reconcileRepository) CreateBatch(ctx context.Context, batch *entities.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *reconcileRepository) ListBatches(ctx context.Context, scope domain.Scope) ([]*entities.Batch, error) {
	var batches []*entities.Batch
	if err := r.scoped(ctx, scope).Order("batch_number asc").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *reconcileRepository) UpdateBatchFields(ctx context.Context, batchID uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entities.Batch{}).
		Where("id = ?", batchID).
		Updates(fields).Error
}

func (r *reconcileRepository) ListSerialedItems(ctx context.Context, scope domain.Scope) ([]*entities.Item, error) {
	var items []*entities.Item
	if err := r.scoped(ctx, scope).Where("serial_number <> ''").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SerialsClaimedOutside returns the subset of serials already owned by an
// item in a different category of the same tenant.
func (r *reconcileRepository) SerialsClaimedOutside(ctx context.Context, scope domain.Scope, serials []string) ([]string, error) {
	claimed := make([]string, 0)
	for _, chunk := range chunked(serials, writeChunkSize) {
		var found []string
		if err := r.db.WithContext(ctx).Model(&entities.Item{}).
			Where("tenant_id = ? AND category <> ? AND serial_number IN ?", scope.TenantID, scope.Category, chunk).
			Pluck("serial_number", &found).Error; err != nil {
			return nil, err
		}
		claimed = append(claimed, found...)
	}
	return claimed, nil
}

func (r *reconcileRepository) CreateItems(ctx context.Context, items []*entities.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, writeChunkSize).Error
}

func (r *reconcileRepository) SaveItems(ctx context.Context, items []*entities.Item) error {
	for _, item := range items {
		if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *reconcileRepository) OrphanItems(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	for start := 0; start < len(ids); start += writeChunkSize {
		end := start + writeChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := r.db.WithContext(ctx).Model(&entities.Item{}).
			Where("id IN ?", ids[start:end]).
			Updates(map[string]interface{}{"batch_id": nil, "orphaned_at": at}).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteConflicts clears every conflict naming one of the given batch
// numbers as either side. Conflicts are derived data; each run replaces the
// entries for the batches it touched.
func (r *reconcileRepository) DeleteConflicts(ctx context.Context, scope domain.Scope, batchNumbers []string) error {
	for _, chunk := range chunked(batchNumbers, writeChunkSize) {
		if err := r.scoped(ctx, scope).
			Where("losing_batch_number IN ? OR winning_batch_number IN ?", chunk, chunk).
			Unscoped().
			Delete(&entities.Conflict{}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *reconcileRepository) CreateConflicts(ctx context.Context, conflicts []*entities.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(conflicts, writeChunkSize).Error
}

func (r *reconcileRepository) ListConflicts(ctx context.Context, scope domain.Scope, status string) ([]*entities.Conflict, error) {
	query := r.scoped(ctx, scope)
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var conflicts []*entities.Conflict
	if err := query.Order("created_at desc").Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

func (r *reconcileRepository) ResolveConflict(ctx context.Context, scope domain.Scope, id string) error {
	result := r.scoped(ctx, scope).Model(&entities.Conflict{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": "resolved"})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reconcileRepository) AppendChangeLogs(ctx context.Context, logs []*entities.ItemChangeLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(logs, writeChunkSize).Error
}

// DeleteCategoryData hard-deletes every item, batch, conflict and change-log
// row in the scope. Used only by the destructive resync path.
func (r *reconcileRepository) DeleteCategoryData(ctx context.Context, scope domain.Scope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		where := "tenant_id = ? AND category = ?"
		if err := tx.Unscoped().Where(where, scope.TenantID, scope.Category).Delete(&entities.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where(where, scope.TenantID, scope.Category).Delete(&entities.Batch{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where(where, scope.TenantID, scope.Category).Delete(&entities.Conflict{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where(where, scope.TenantID, scope.Category).Delete(&entities.ItemChangeLog{}).Error; err != nil {
			return err
		}
		return nil
	})
}

// MergeBatches reassigns every item owned by a source batch to the target
// and deletes the source batch rows, atomically. Preconditions are checked
// before any mutation; a failed precondition leaves the store untouched.
func (r *reconcileRepository) MergeBatches(ctx context.Context, scope domain.Scope, sources []string, target string, createTarget bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scopedWhere := "tenant_id = ? AND category = ?"

		var sourceBatches []*entities.Batch
		if err := tx.Where(scopedWhere, scope.TenantID, scope.Category).
			Where("batch_number IN ?", sources).
			Find(&sourceBatches).Error; err != nil {
			return err
		}
		if len(sourceBatches) != len(sources) {
			return domain.ErrSourceBatchNotFound
		}

		var targetBatch entities.Batch
		err := tx.Where(scopedWhere, scope.TenantID, scope.Category).
			Where("batch_number = ?", target).
			First(&targetBatch).Error
		switch {
		case err == nil && createTarget:
			return domain.ErrTargetBatchExists
		case errors.Is(err, gorm.ErrRecordNotFound) && !createTarget:
			return domain.ErrTargetBatchNotFound
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if createTarget {
			targetBatch = entities.Batch{
				ID:          uuid.New(),
				TenantID:    scope.TenantID,
				Category:    scope.Category,
				BatchNumber: target,
				Status:      "active",
			}
			if err := tx.Create(&targetBatch).Error; err != nil {
				return err
			}
		}

		sourceIDs := make([]uuid.UUID, 0, len(sourceBatches))
		for _, batch := range sourceBatches {
			sourceIDs = append(sourceIDs, batch.ID)
		}

		if err := tx.Model(&entities.Item{}).
			Where("batch_id IN ?", sourceIDs).
			Updates(map[string]interface{}{"batch_id": targetBatch.ID}).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("id IN ?", sourceIDs).Delete(&entities.Batch{}).Error; err != nil {
			return err
		}

		return nil
	})
}
