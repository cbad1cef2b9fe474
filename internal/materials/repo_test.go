package materials

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

func setupMaterialsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	materials := `
CREATE TABLE IF NOT EXISTS materials (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  unit TEXT NOT NULL,
  quantity_on_hand NUMERIC NOT NULL DEFAULT 0,
  reorder_level NUMERIC NOT NULL DEFAULT 0,
  unit_cost NUMERIC NOT NULL DEFAULT 0,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(materials).Error)
	return db
}

func newMaterial(t *testing.T, db *gorm.DB, name string, onHand, reorder string, created time.Time) *models.Material {
	t.Helper()

	material := &models.Material{
		ID:             uuid.New(),
		Name:           name,
		Unit:           enums.MaterialUnitKilogram,
		QuantityOnHand: decimal.RequireFromString(onHand),
		ReorderLevel:   decimal.RequireFromString(reorder),
		UnitCost:       decimal.RequireFromString("4.50"),
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	require.NoError(t, db.Create(material).Error)
	return material
}

func TestRepositorySatisfiesStore(t *testing.T) {
	db := setupMaterialsTestDB(t)

	// The stock-adjustment path rebinds the repo inside a transaction, so
	// *Repository has to be usable wherever a Store is expected.
	var store Store = NewRepository(db)
	created := newMaterial(t, db, "Stoneware Clay", "12.000", "5.000", time.Now().UTC())

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		found, err := store.WithTx(tx).FindByID(context.Background(), created.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, "Stoneware Clay", found.Name)
		return nil
	}))
}

func TestRepositoryUpdatePersistsStockChange(t *testing.T) {
	db := setupMaterialsTestDB(t)
	repo := NewRepository(db)
	material := newMaterial(t, db, "Glaze Base", "3.000", "1.000", time.Now().UTC())

	material.QuantityOnHand = decimal.RequireFromString("2.250")
	_, err := repo.Update(context.Background(), material)
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), material.ID)
	require.NoError(t, err)
	assert.True(t, found.QuantityOnHand.Equal(decimal.RequireFromString("2.250")), "got %s", found.QuantityOnHand)
}

func TestRepositoryListSearchAndPagination(t *testing.T) {
	db := setupMaterialsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	newMaterial(t, db, "Stoneware Clay", "12.000", "5.000", now.Add(-time.Hour))
	second := newMaterial(t, db, "Porcelain Clay", "8.000", "5.000", now)
	newMaterial(t, db, "Glaze Base", "3.000", "1.000", now.Add(-2*time.Hour))

	rows, err := repo.List(context.Background(), "clay", pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2, "buffered fetch should include the next-page probe row")
	assert.Equal(t, second.ID, rows[0].ID)

	cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: rows[0].CreatedAt, ID: rows[0].ID})
	next, err := repo.List(context.Background(), "clay", pagination.Params{Limit: 1, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, "Stoneware Clay", next[0].Name)
}

func TestRepositoryListLowStockOrdersByShortfall(t *testing.T) {
	db := setupMaterialsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	newMaterial(t, db, "Stoneware Clay", "12.000", "5.000", now)
	newMaterial(t, db, "Porcelain Clay", "2.000", "5.000", now)
	newMaterial(t, db, "Glaze Base", "1.000", "1.000", now)

	rows, err := repo.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Porcelain Clay", rows[0].Name, "largest shortfall first")
	assert.Equal(t, "Glaze Base", rows[1].Name)
}
