package domain

import (
	"errors"
	"os"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	CategoryAsIs          = "as_is"
	CategoryFinishedGoods = "finished_goods"
	CategoryLocalStock    = "local_stock"
	CategoryParts         = "parts"
)

var Categories = []string{
	CategoryAsIs,
	CategoryFinishedGoods,
	CategoryLocalStock,
	CategoryParts,
}

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	JwtSecret = os.Getenv("JWT_SECRET")

	ErrParseUUID       = errors.New("failed to parse UUID")
	ErrUserNotAllowed  = errors.New("user not allowed")
	ErrTokenNotFound   = errors.New("token not found")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrInvalidCategory = errors.New("invalid inventory category")
)

// Scope identifies the tenant and inventory category a mutation applies to.
// Every engine call receives it explicitly; there is no ambient context.
type Scope struct {
	TenantID uuid.UUID
	Category string
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
