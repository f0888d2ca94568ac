package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shelfstock/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	id, product_name, brand, barcode, images,
	description, item_weight, weight_unit, ingredients, storage,
	items_per_pack, color, material,
	width, width_unit, height, height_unit, warranty,
	created_at, updated_at
`

// Create inserts a new product and assigns the store-generated id.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			product_name, brand, barcode, images,
			description, item_weight, weight_unit, ingredients, storage,
			items_per_pack, color, material,
			width, width_unit, height, height_unit, warranty,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id
	`

	images, ingredients, storage, err := encodeLists(product)
	if err != nil {
		return err
	}
	weightValue, weightUnit := product.ItemWeight.Split()
	widthValue, widthUnit := product.Width.Split()
	heightValue, heightUnit := product.Height.Split()

	err = r.db.QueryRowContext(
		ctx,
		query,
		product.ProductName,
		product.Brand,
		product.Barcode,
		images,
		product.Description,
		weightValue,
		weightUnit,
		ingredients,
		storage,
		product.ItemsPerPack,
		product.Color,
		product.Material,
		widthValue,
		widthUnit,
		heightValue,
		heightUnit,
		product.Warranty,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by its id.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves every product, newest first. The catalog has no pagination.
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Search filters products by a case-insensitive substring of name or brand.
func (r *productRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	searchQuery := `
		SELECT ` + productColumns + `
		FROM products
		WHERE product_name ILIKE $1 OR brand ILIKE $1
		ORDER BY created_at DESC, id DESC
	`
	pattern := "%" + query + "%"

	rows, err := r.db.QueryContext(ctx, searchQuery, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Update overwrites every mutable column of an existing product. The single
// UPDATE keeps each write atomic per record; there is no version check, so
// concurrent writers are last-write-wins.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET product_name = $2, brand = $3, barcode = $4, images = $5,
		    description = $6, item_weight = $7, weight_unit = $8,
		    ingredients = $9, storage = $10, items_per_pack = $11,
		    color = $12, material = $13,
		    width = $14, width_unit = $15, height = $16, height_unit = $17,
		    warranty = $18, updated_at = $19
		WHERE id = $1
	`

	images, ingredients, storage, err := encodeLists(product)
	if err != nil {
		return err
	}
	weightValue, weightUnit := product.ItemWeight.Split()
	widthValue, widthUnit := product.Width.Split()
	heightValue, heightUnit := product.Height.Split()

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.ProductName,
		product.Brand,
		product.Barcode,
		images,
		product.Description,
		weightValue,
		weightUnit,
		ingredients,
		storage,
		product.ItemsPerPack,
		product.Color,
		product.Material,
		widthValue,
		widthUnit,
		heightValue,
		heightUnit,
		product.Warranty,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// encodeLists marshals the slice-valued fields into their JSONB columns.
// Nil slices are stored as empty arrays so the columns stay NOT NULL.
func encodeLists(product *domain.Product) (images, ingredients, storage []byte, err error) {
	if images, err = json.Marshal(emptyIfNil(product.Images)); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode images: %w", err)
	}
	if ingredients, err = json.Marshal(emptyIfNil(product.Ingredients)); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode ingredients: %w", err)
	}
	storageValues := make([]string, 0, len(product.Storage))
	for _, st := range product.Storage {
		storageValues = append(storageValues, string(st))
	}
	if storage, err = json.Marshal(storageValues); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode storage: %w", err)
	}
	return images, ingredients, storage, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct maps one row onto the domain model, reassembling each Measure
// from its split value/unit columns. A half-null pair reads as absent.
func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product     domain.Product
		images      []byte
		ingredients []byte
		storage     []byte
		weightValue *float64
		weightUnit  *string
		widthValue  *float64
		widthUnit   *string
		heightValue *float64
		heightUnit  *string
	)

	err := row.Scan(
		&product.ID,
		&product.ProductName,
		&product.Brand,
		&product.Barcode,
		&images,
		&product.Description,
		&weightValue,
		&weightUnit,
		&ingredients,
		&storage,
		&product.ItemsPerPack,
		&product.Color,
		&product.Material,
		&widthValue,
		&widthUnit,
		&heightValue,
		&heightUnit,
		&product.Warranty,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	if err := json.Unmarshal(ingredients, &product.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	var storageValues []string
	if err := json.Unmarshal(storage, &storageValues); err != nil {
		return nil, fmt.Errorf("failed to decode storage: %w", err)
	}
	product.Storage = make([]domain.StorageType, 0, len(storageValues))
	for _, s := range storageValues {
		product.Storage = append(product.Storage, domain.StorageType(s))
	}

	product.ItemWeight = domain.NewMeasure(weightValue, weightUnit)
	product.Width = domain.NewMeasure(widthValue, widthUnit)
	product.Height = domain.NewMeasure(heightValue, heightUnit)

	return &product, nil
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
