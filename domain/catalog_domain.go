package domain

import (
	"errors"
)

// ProductTypeUnknown is the sentinel assigned when a feed model has no
// catalog entry. Ingestion never rejects a row over a catalog miss.
const ProductTypeUnknown = "unknown"

var (
	MessageSuccessAddProduct  = "product added successfully"
	MessageSuccessGetProducts = "products retrieved successfully"

	MessageFailedAddProduct  = "failed to add product"
	MessageFailedGetProducts = "failed to retrieve products"

	ErrProductNotFound = errors.New("product not found")
)

type (
	AddProductRequest struct {
		Model       string `json:"model" validate:"required"`
		ProductType string `json:"product_type" validate:"required"`
		Description string `json:"description"`
	}

	ProductResponse struct {
		ID          string `json:"id"`
		Model       string `json:"model"`
		ProductType string `json:"product_type"`
		Description string `json:"description,omitempty"`
	}

	// ProductRef is what the normalizer receives from a catalog lookup.
	ProductRef struct {
		ID          string
		ProductType string
	}
)
