package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/barahweb/shop-api/internal/models"
	"github.com/barahweb/shop-api/internal/repository"
	"github.com/redis/go-redis/v9"
)

const productListCacheKey = "products:all"

// ErrProductNotFound is returned when a catalog lookup matches nothing.
var ErrProductNotFound = errors.New("product not found")

// CreateProductInput carries the fields accepted on product creation.
type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	Quantity    int
	Category    string
}

// CatalogService provides product catalog operations backed by the
// product repository with a Redis read cache on the listing.
type CatalogService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	AttachImage(ctx context.Context, image *models.ProductImage) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	redis       *redis.Client
	cacheTTL    time.Duration
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(productRepo repository.ProductRepository, redisClient *redis.Client, cacheTTL time.Duration) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		redis:       redisClient,
		cacheTTL:    cacheTTL,
	}
}

// List serves the product listing from cache when possible. Cache
// failures fall through to the database; the cache is never
// authoritative.
func (s *catalogService) List(ctx context.Context) ([]models.Product, error) {
	if cached, err := s.redis.Get(ctx, productListCacheKey).Bytes(); err == nil {
		var products []models.Product
		if err := json.Unmarshal(cached, &products); err == nil {
			return products, nil
		}
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		s.redis.Set(ctx, productListCacheKey, data, s.cacheTTL)
	}
	return products, nil
}

func (s *catalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	return s.productRepo.Search(ctx, query, 10)
}

func (s *catalogService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Category:    input.Category,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *catalogService) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Product, error) {
	product, err := s.productRepo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) AttachImage(ctx context.Context, image *models.ProductImage) error {
	if err := s.productRepo.AddImage(ctx, image); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	s.redis.Del(ctx, productListCacheKey)
}
