package catalog

import (
	"context"
	"errors"

	"github.com/whaleen/warehouse-sub000/domain"
	"github.com/whaleen/warehouse-sub000/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CatalogService interface {
		AddProduct(ctx context.Context, req domain.AddProductRequest, tenantID string) (domain.ProductResponse, error)
		GetProducts(ctx context.Context, tenantID string, page, limit int) ([]domain.ProductResponse, int64, error)
		Lookup(ctx context.Context, tenantID uuid.UUID, model string) (*domain.ProductRef, error)
	}

	catalogService struct {
		catalogRepository CatalogRepository
	}
)

func NewCatalogService(catalogRepository CatalogRepository) CatalogService {
	return &catalogService{catalogRepository: catalogRepository}
}

func (s *catalogService) AddProduct(ctx context.Context, req domain.AddProductRequest, tenantID string) (domain.ProductResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return domain.ProductResponse{}, domain.ErrParseUUID
	}

	product := &entities.Product{
		ID:          uuid.New(),
		TenantID:    tenantUUID,
		Model:       req.Model,
		ProductType: req.ProductType,
		Description: req.Description,
	}

	if err := s.catalogRepository.AddProduct(ctx, product); err != nil {
		return domain.ProductResponse{}, err
	}

	return domain.ProductResponse{
		ID:          product.ID.String(),
		Model:       product.Model,
		ProductType: product.ProductType,
		Description: product.Description,
	}, nil
}

func (s *catalogService) GetProducts(ctx context.Context, tenantID string, page, limit int) ([]domain.ProductResponse, int64, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	products, count, err := s.catalogRepository.GetProducts(ctx, tenantUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var response []domain.ProductResponse
	for _, product := range products {
		response = append(response, domain.ProductResponse{
			ID:          product.ID.String(),
			Model:       product.Model,
			ProductType: product.ProductType,
			Description: product.Description,
		})
	}
	return response, count, nil
}

// Lookup resolves a feed model string against the catalog. A miss is not an
// error: the normalizer substitutes the unknown product type instead.
func (s *catalogService) Lookup(ctx context.Context, tenantID uuid.UUID, model string) (*domain.ProductRef, error) {
	product, err := s.catalogRepository.GetProductByModel(ctx, tenantID, model)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.ProductRef{
		ID:          product.ID.String(),
		ProductType: product.ProductType,
	}, nil
}
