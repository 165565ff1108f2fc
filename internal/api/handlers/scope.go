package handlers

import (
	"github.com/whaleen/warehouse-sub000/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// scopeFromCtx builds the engine scope from the authenticated tenant and a
// category supplied by the request.
func scopeFromCtx(c *fiber.Ctx, category string) (domain.Scope, error) {
	tenantID, ok := c.Locals("tenant_id").(string)
	if !ok || tenantID == "" {
		return domain.Scope{}, domain.ErrUserNotAllowed
	}

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return domain.Scope{}, domain.ErrParseUUID
	}

	if !domain.ValidCategory(category) {
		return domain.Scope{}, domain.ErrInvalidCategory
	}

	return domain.Scope{TenantID: tenantUUID, Category: category}, nil
}
