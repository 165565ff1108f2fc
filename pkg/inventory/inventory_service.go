package inventory

import (
	"context"
	"errors"

	"github.com/whaleen/warehouse-sub000/domain"
	"github.com/whaleen/warehouse-sub000/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	InventoryService interface {
		CreateBatch(ctx context.Context, req domain.CreateBatchRequest, tenantID string) (domain.BatchResponse, error)
		UpdateBatch(ctx context.Context, scope domain.Scope, number string, req domain.UpdateBatchRequest) error
		DeleteBatch(ctx context.Context, scope domain.Scope, number string) error
		GetBatches(ctx context.Context, scope domain.Scope, page, limit int) ([]domain.BatchResponse, int64, error)
		GetItems(ctx context.Context, scope domain.Scope, filter domain.ItemFilter) ([]domain.ItemResponse, int64, error)
		UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest) error
		GetCategoryStats(ctx context.Context, scope domain.Scope) (domain.CategoryStatsResponse, error)
	}

	inventoryService struct {
		inventoryRepository InventoryRepository
	}
)

func NewInventoryService(inventoryRepository InventoryRepository) InventoryService {
	return &inventoryService{inventoryRepository: inventoryRepository}
}

func (s *inventoryService) CreateBatch(ctx context.Context, req domain.CreateBatchRequest, tenantID string) (domain.BatchResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return domain.BatchResponse{}, domain.ErrParseUUID
	}
	if !domain.ValidCategory(req.Category) {
		return domain.BatchResponse{}, domain.ErrInvalidCategory
	}

	scope := domain.Scope{TenantID: tenantUUID, Category: req.Category}
	if _, err := s.inventoryRepository.GetBatchByNumber(ctx, scope, req.BatchNumber); err == nil {
		return domain.BatchResponse{}, domain.ErrBatchAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.BatchResponse{}, err
	}

	batch := &entities.Batch{
		ID:          uuid.New(),
		TenantID:    tenantUUID,
		Category:    req.Category,
		BatchNumber: req.BatchNumber,
		Status:      "active",
		DisplayName: req.DisplayName,
		Notes:       req.Notes,
		ColorTag:    req.ColorTag,
		SubCategory: req.SubCategory,
	}

	if err := s.inventoryRepository.CreateBatch(ctx, batch); err != nil {
		return domain.BatchResponse{}, err
	}

	return s.batchResponse(ctx, batch)
}

func (s *inventoryService) UpdateBatch(ctx context.Context, scope domain.Scope, number string, req domain.UpdateBatchRequest) error {
	batch, err := s.inventoryRepository.GetBatchByNumber(ctx, scope, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBatchNotFound
		}
		return err
	}

	fields := make(map[string]interface{})
	if req.DisplayName != nil {
		fields["display_name"] = *req.DisplayName
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.ColorTag != nil {
		fields["color_tag"] = *req.ColorTag
	}
	if req.SubCategory != nil {
		fields["sub_category"] = *req.SubCategory
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.PrepStarted != nil {
		fields["prep_started"] = *req.PrepStarted
	}
	if req.ReviewRequested != nil {
		fields["review_requested"] = *req.ReviewRequested
	}
	if len(fields) == 0 {
		return nil
	}

	return s.inventoryRepository.UpdateBatchFields(ctx, batch.ID, fields)
}

func (s *inventoryService) DeleteBatch(ctx context.Context, scope domain.Scope, number string) error {
	batch, err := s.inventoryRepository.GetBatchByNumber(ctx, scope, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBatchNotFound
		}
		return err
	}
	return s.inventoryRepository.DeleteBatch(ctx, batch)
}

func (s *inventoryService) GetBatches(ctx context.Context, scope domain.Scope, page, limit int) ([]domain.BatchResponse, int64, error) {
	batches, count, err := s.inventoryRepository.GetBatches(ctx, scope, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		res, err := s.batchResponse(ctx, batch)
		if err != nil {
			return nil, 0, err
		}
		response = append(response, res)
	}
	return response, count, nil
}

func (s *inventoryService) batchResponse(ctx context.Context, batch *entities.Batch) (domain.BatchResponse, error) {
	itemCount, err := s.inventoryRepository.CountBatchItems(ctx, batch.ID)
	if err != nil {
		return domain.BatchResponse{}, err
	}

	return domain.BatchResponse{
		ID:              batch.ID.String(),
		BatchNumber:     batch.BatchNumber,
		Category:        batch.Category,
		Status:          batch.Status,
		DisplayName:     batch.DisplayName,
		Notes:           batch.Notes,
		ColorTag:        batch.ColorTag,
		SubCategory:     batch.SubCategory,
		PrepStarted:     batch.PrepStarted,
		ReviewRequested: batch.ReviewRequested,
		FeedStatus:      batch.FeedStatus,
		CSOReference:    batch.CSOReference,
		Units:           batch.Units,
		Pricing:         batch.Pricing,
		SubmittedDate:   batch.SubmittedDate,
		ScannedAt:       batch.ScannedAt,
		ItemCount:       itemCount,
	}, nil
}

func (s *inventoryService) GetItems(ctx context.Context, scope domain.Scope, filter domain.ItemFilter) ([]domain.ItemResponse, int64, error) {
	items, count, err := s.inventoryRepository.GetItems(ctx, scope, filter)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ItemResponse, 0, len(items))
	for _, item := range items {
		res := domain.ItemResponse{
			ID:           item.ID.String(),
			SerialNumber: item.SerialNumber,
			Model:        item.Model,
			Quantity:     item.Quantity,
			Category:     item.Category,
			ProductType:  item.ProductType,
			ScanState:    item.ScanState,
			OrderRef:     item.OrderRef,
			FeedStatus:   item.FeedStatus,
			Notes:        item.Notes,
			ManualStatus: item.ManualStatus,
			OrphanedAt:   item.OrphanedAt,
			CreatedAt:    item.CreatedAt,
		}
		if item.Batch != nil {
			res.BatchNumber = item.Batch.BatchNumber
		}
		response = append(response, res)
	}
	return response, count, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest) error {
	item, err := s.inventoryRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}

	fields := make(map[string]interface{})
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.ManualStatus != nil {
		fields["manual_status"] = *req.ManualStatus
	}
	if req.ScanState != nil {
		fields["scan_state"] = *req.ScanState
	}
	if len(fields) == 0 {
		return nil
	}

	return s.inventoryRepository.UpdateItemFields(ctx, item.ID, fields)
}

func (s *inventoryService) GetCategoryStats(ctx context.Context, scope domain.Scope) (domain.CategoryStatsResponse, error) {
	return s.inventoryRepository.GetCategoryStats(ctx, scope)
}
