package service

import (
	"context"
	"fmt"
	"time"

	"shelfstock/internal/domain"
	"shelfstock/internal/enrich"
	"shelfstock/internal/repository"
)

// Enricher produces a validated enrichment candidate for a product. It is
// the only collaborator here that performs network I/O.
type Enricher interface {
	Enrich(ctx context.Context, product domain.Product) (domain.EnrichmentResult, error)
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, productName, brand string, barcode *string, images []string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Enrich(ctx context.Context, id int64) (domain.EnrichmentResult, error)
	SaveEnrichment(ctx context.Context, id int64, enrichment domain.Enrichment) (*domain.Product, error)
}

type productService struct {
	repo     repository.ProductRepository
	enricher Enricher
}

// NewProductService creates a new instance of ProductService
func NewProductService(repo repository.ProductRepository, enricher Enricher) ProductService {
	return &productService{
		repo:     repo,
		enricher: enricher,
	}
}

// Create stores a new product with empty enrichable fields. The store
// assigns the id.
func (s *productService) Create(ctx context.Context, productName, brand string, barcode *string, images []string) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ProductName: productName,
		Brand:       brand,
		Barcode:     barcode,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// List returns every product in the catalog.
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

// Search returns products whose name or brand contains the query substring.
func (s *productService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

// Delete removes a product by id.
func (s *productService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Enrich runs one enrichment attempt for the product. Nothing is persisted:
// any failure leaves the stored record untouched, and even on success the
// caller decides whether to save the result.
func (s *productService) Enrich(ctx context.Context, id int64) (domain.EnrichmentResult, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.EnrichmentResult{}, err
	}

	return s.enricher.Enrich(ctx, *product)
}

// SaveEnrichment merges a validated enrichment into the freshly fetched
// original and persists the result. The merge policy re-asserts the stored
// immutable fields, so a candidate echoing conflicting identity values can
// never overwrite them.
func (s *productService) SaveEnrichment(ctx context.Context, id int64, enrichment domain.Enrichment) (*domain.Product, error) {
	original, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := enrich.Merge(*original, domain.EnrichmentResult{
		ProductID:  id,
		Enrichment: enrichment,
	})
	merged.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, &merged); err != nil {
		return nil, err
	}

	return &merged, nil
}
