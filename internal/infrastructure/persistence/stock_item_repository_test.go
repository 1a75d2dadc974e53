package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// newLockedStockItem builds a stock item whose opening movement is already
// persisted, so lock tests only exercise the row update.
func newLockedStockItem(t *testing.T) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(uuid.New(), uuid.New(), "SKU-001", 10, 0, true)
	require.NoError(t, err)
	item.Movements = nil
	item.ClearDomainEvents()
	return item
}

func TestGormStockItemRepository_FindByID(t *testing.T) {
	t.Run("finds existing stock item", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		itemID := uuid.New()
		variantID := uuid.New()
		locationID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "variant_id", "stock_location_id", "sku",
			"quantity_on_hand", "quantity_reserved", "backorderable", "version",
		}).AddRow(itemID, variantID, locationID, "SKU-001", int64(25), int64(5), true, 3)

		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE id = \$1`).
			WithArgs(itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByID(context.Background(), itemID)
		require.NoError(t, err)

		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, "SKU-001", item.Sku)
		assert.Equal(t, int64(25), item.QuantityOnHand)
		assert.Equal(t, int64(20), item.CountAvailable())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing item maps to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE id = \$1`).
			WithArgs(itemID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), itemID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockItemRepository_FindByLocationAndVariant(t *testing.T) {
	t.Run("missing pair maps to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE stock_location_id = \$1 AND variant_id = \$2`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByLocationAndVariant(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormStockItemRepository_SaveWithLock(t *testing.T) {
	t.Run("updates matching version", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		item := newLockedStockItem(t)
		_, err := item.Adjust(5, inventory.OriginatorSupplier, "restock", nil)
		require.NoError(t, err)
		item.Movements = nil

		mock.ExpectExec(`UPDATE "stock_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SaveWithLock(context.Background(), item))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version maps to concurrency conflict", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		item := newLockedStockItem(t)
		_, err := item.Adjust(5, inventory.OriginatorSupplier, "restock", nil)
		require.NoError(t, err)
		item.Movements = nil

		mock.ExpectExec(`UPDATE "stock_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), item)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormStockItemRepository_Delete(t *testing.T) {
	t.Run("deletes existing row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		itemID := uuid.New()
		mock.ExpectExec(`DELETE FROM "stock_items" WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), itemID))
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		itemID := uuid.New()
		mock.ExpectExec(`DELETE FROM "stock_items" WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), itemID), shared.ErrNotFound)
	})
}

func TestGormStockItemRepository_ExistsWithStock(t *testing.T) {
	t.Run("reports stock at location", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		locationID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_items" WHERE stock_location_id = \$1 AND quantity_on_hand > 0`).
			WithArgs(locationID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		exists, err := repo.ExistsWithStock(context.Background(), locationID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("empty location reports false", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		locationID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_items" WHERE stock_location_id = \$1 AND quantity_on_hand > 0`).
			WithArgs(locationID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsWithStock(context.Background(), locationID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
