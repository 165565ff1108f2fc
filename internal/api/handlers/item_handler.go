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
	ItemHandler interface {
		GetItems(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
	}

	itemHandler struct {
		inventoryService inventory.InventoryService
		validator        *validator.Validate
	}
)

func NewItemHandler(inventoryService inventory.InventoryService, validator *validator.Validate) ItemHandler {
	return &itemHandler{
		inventoryService: inventoryService,
		validator:        validator,
	}
}

func (h *itemHandler) GetItems(c *fiber.Ctx) error {
	scope, err := scopeFromCtx(c, c.Params("category"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetItems, err)
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}

	filter := domain.ItemFilter{
		BatchNumber: c.Query("batch"),
		ScanState:   c.Query("scan_state", "all"),
		Orphaned:    c.QueryBool("orphaned"),
		Page:        page,
		Limit:       limit,
	}

	items, count, err := h.inventoryService.GetItems(c.Context(), scope, filter)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetItems, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) UpdateItem(c *fiber.Ctx) error {
	req := new(domain.UpdateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}

	if err := h.inventoryService.UpdateItem(c.Context(), c.Params("id"), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateItem)
}
