package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: gets its own database; a single
	// connection keeps all queries, including concurrent ones, on one schema
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return db
}

func TestMigrate(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{
		"accounts", "tax_rates", "accounting_periods",
		"journals", "journal_lines",
		"open_invoices", "open_bills",
		"bank_statements", "bank_rows",
	} {
		require.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}
