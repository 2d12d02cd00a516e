package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barahweb/shop-api/internal/models"
	"gorm.io/gorm"
)

// ProductRepository defines persistence operations for the catalog.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Product, error)
	SoftDelete(ctx context.Context, id int64) error
	AddImage(ctx context.Context, image *models.ProductImage) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("is_deleted = ?", false).
		Order("id DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("is_deleted = ?", false).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by id %d: %w", id, err)
	}
	return &product, nil
}

func (r *productRepository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Where(r.db.Where("name LIKE ?", pattern).Or("description LIKE ?", pattern)).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Product, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update product id %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *productRepository) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": &now})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product id %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) AddImage(ctx context.Context, image *models.ProductImage) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to create product image: %w", err)
	}
	return nil
}
