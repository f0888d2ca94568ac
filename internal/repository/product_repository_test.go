package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"shelfstock/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// Create the products table, mirroring the goose migration
	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			product_name VARCHAR(255) NOT NULL,
			brand VARCHAR(255) NOT NULL,
			barcode VARCHAR(64),
			images JSONB NOT NULL DEFAULT '[]',
			description TEXT,
			item_weight DOUBLE PRECISION,
			weight_unit VARCHAR(32),
			ingredients JSONB NOT NULL DEFAULT '[]',
			storage JSONB NOT NULL DEFAULT '[]',
			items_per_pack INTEGER,
			color VARCHAR(100),
			material VARCHAR(100),
			width DOUBLE PRECISION,
			width_unit VARCHAR(32),
			height DOUBLE PRECISION,
			height_unit VARCHAR(32),
			warranty INTEGER,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func newStoredProduct(t *testing.T, repo ProductRepository, name, brand string) *domain.Product {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	product := &domain.Product{
		ProductName: name,
		Brand:       brand,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func TestProperty_CreateThenFindRoundTrips(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("a created product reads back with its measures intact", prop.ForAll(
		func(name string, brand string, weight float64, unit string) bool {
			now := time.Now().UTC().Truncate(time.Millisecond)
			product := &domain.Product{
				ProductName: name,
				Brand:       brand,
				Images:      []string{"https://example.com/a.jpg"},
				Enrichment: domain.Enrichment{
					ItemWeight: &domain.Measure{Value: weight, Unit: unit},
					Storage:    []domain.StorageType{domain.StorageAmbient},
				},
				CreatedAt: now,
				UpdatedAt: now,
			}

			if err := repo.Create(ctx, product); err != nil {
				t.Logf("create failed: %v", err)
				return false
			}
			if product.ID == 0 {
				return false
			}

			found, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("find failed: %v", err)
				return false
			}

			if found.ProductName != name || found.Brand != brand {
				return false
			}
			if found.ItemWeight == nil {
				return false
			}
			if found.ItemWeight.Value != weight || found.ItemWeight.Unit != unit {
				return false
			}
			return len(found.Storage) == 1 && found.Storage[0] == domain.StorageAmbient
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Float64Range(0.001, 1e6),
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCreateStoresAbsentMeasuresAsNull(t *testing.T) {
	repo := NewProductRepository(testDB)
	product := newStoredProduct(t, repo, "Plain Widget", "Acme")

	found, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Nil(t, found.ItemWeight)
	assert.Nil(t, found.Width)
	assert.Nil(t, found.Height)
	assert.Nil(t, found.Barcode)
	assert.NotNil(t, found.Images)
	assert.Empty(t, found.Images)
	assert.Empty(t, found.Ingredients)
	assert.Empty(t, found.Storage)
}

func TestUpdateOverwritesEnrichableColumns(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()
	product := newStoredProduct(t, repo, "Gouda Slices", "Dairy Farm")

	description := "Matured gouda, pre-sliced."
	warranty := 0
	product.Description = &description
	product.Ingredients = []string{"milk", "salt", "cultures"}
	product.Storage = []domain.StorageType{domain.StorageDry, domain.StorageDeepFrozen}
	product.Width = &domain.Measure{Value: 12.5, Unit: "cm"}
	product.Warranty = &warranty
	product.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, repo.Update(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)

	require.NotNil(t, found.Description)
	assert.Equal(t, description, *found.Description)
	assert.Equal(t, []string{"milk", "salt", "cultures"}, found.Ingredients)
	assert.Equal(t, []domain.StorageType{domain.StorageDry, domain.StorageDeepFrozen}, found.Storage)
	require.NotNil(t, found.Width)
	assert.Equal(t, domain.Measure{Value: 12.5, Unit: "cm"}, *found.Width)
	require.NotNil(t, found.Warranty)
	assert.Equal(t, 0, *found.Warranty)
}

func TestUpdateClearsDroppedFields(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()
	product := newStoredProduct(t, repo, "Espresso Beans", "Roastery")

	description := "Dark roast."
	product.Description = &description
	product.ItemWeight = &domain.Measure{Value: 500, Unit: "g"}
	require.NoError(t, repo.Update(ctx, product))

	product.Description = nil
	product.ItemWeight = nil
	require.NoError(t, repo.Update(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Description)
	assert.Nil(t, found.ItemWeight)
}

func TestUpdateUnknownProduct(t *testing.T) {
	repo := NewProductRepository(testDB)

	err := repo.Update(context.Background(), &domain.Product{
		ID:          999999,
		ProductName: "Ghost",
		Brand:       "Nobody",
		UpdatedAt:   time.Now(),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := NewProductRepository(testDB)

	_, err := repo.FindByID(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteRemovesProduct(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()
	product := newStoredProduct(t, repo, "Doomed Widget", "Acme")

	require.NoError(t, repo.Delete(ctx, product.ID))

	_, err := repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, product.ID), ErrProductNotFound)
}

func TestSearchMatchesNameAndBrandSubstrings(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	newStoredProduct(t, repo, "Organic Oat Milk", "Grainful")
	newStoredProduct(t, repo, "Almond Drink", "OatHouse")
	newStoredProduct(t, repo, "Sparkling Water", "Springs")

	results, err := repo.Search(ctx, "oat")
	require.NoError(t, err)

	var names []string
	for _, p := range results {
		names = append(names, p.ProductName)
	}
	assert.Contains(t, names, "Organic Oat Milk")
	assert.Contains(t, names, "Almond Drink")
	assert.NotContains(t, names, "Sparkling Water")
}
