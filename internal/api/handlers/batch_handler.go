package handlers

import (
	"strconv"

	"github.com/whaleen/warehouse-sub000/domain"
	"github.com/whaleen/warehouse-sub000/internal/api/presenters"
	"github.com/whaleen/warehouse-sub000/pkg/inventory"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	BatchHandler interface {
		CreateBatch(c *fiber.Ctx) error
		UpdateBatch(c *fiber.Ctx) error
		DeleteBatch(c *fiber.Ctx) error
		GetBatches(c *fiber.Ctx) error
		GetCategoryStats(c *fiber.Ctx) error
	}

	batchHandler struct {
		inventoryService inventory.InventoryService
		validator        *validator.Validate
	}
)

func NewBatchHandler(inventoryService inventory.InventoryService, validator *validator.Validate) BatchHandler {
	return &batchHandler{
		inventoryService: inventoryService,
		validator:        validator,
	}
}

func (h *batchHandler) CreateBatch(c *fiber.Ctx) error {
	tenantID := c.Locals("tenant_id").(string)
	req := new(domain.CreateBatchRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateBatch, err)
	}

	res, err := h.inventoryService.CreateBatch(c.Context(), *req, tenantID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateBatch, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateBatch)
}

func (h *batchHandler) UpdateBatch(c *fiber.Ctx) error {
	scope, err := scopeFromCtx(c, c.Params("category"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateBatch, err)
	}

	req := new(domain.UpdateBatchRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateBatch, err)
	}

	if err := h.inventoryService.UpdateBatch(c.Context(), scope, c.Params("number"), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateBatch, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateBatch)
}

func (h *batchHandler) DeleteBatch(c *fiber.Ctx) error {
	scope, err := scopeFromCtx(c, c.Params("category"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteBatch, err)
	}

	if err := h.inventoryService.DeleteBatch(c.Context(), scope, c.Params("number")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteBatch, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteBatch)
}

func (h *batchHandler) GetBatches(c *fiber.Ctx) error {
	scope, err := scopeFromCtx(c, c.Params("category"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetBatches, err)
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	batches, count, err := h.inventoryService.GetBatches(c.Context(), scope, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetBatches, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"batches": batches,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetBatches)
}

func (h *batchHandler) GetCategoryStats(c *fiber.Ctx) error {
	scope, err := scopeFromCtx(c, c.Params("category"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetStats, err)
	}

	stats, err := h.inventoryService.GetCategoryStats(c.Context(), scope)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetStats, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetStats)
}
