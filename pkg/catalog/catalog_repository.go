package catalog

import (
	"context"

	"github.com/whaleen/warehouse-sub000/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CatalogRepository interface {
		AddProduct(ctx context.Context, product *entities.Product) error
		GetProductByModel(ctx context.Context, tenantID uuid.UUID, model string) (*entities.Product, error)
		GetProducts(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]*entities.Product, int64, error)
	}

	catalogRepository struct {
		db *gorm.DB
	}
)

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) AddProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *catalogRepository) GetProductByModel(ctx context.Context, tenantID uuid.UUID, model string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND model = ?", tenantID, model).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepository) GetProducts(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]*entities.Product, int64, error) {
	var products []*entities.Product
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if err := query.Model(&entities.Product{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(offset).Limit(limit).Order("model asc").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, count, nil
}
