package infra

import (
	"fmt"

	"siwarapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches for the DDL
// AutoMigrate cannot express (partial unique indexes, sequences).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema and applies the SQL-only patches. Safe to
// re-run; also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.Ingredient{},
		&model.InventoryMovement{},
		&model.RecipeLine{},
		&model.Shift{},
		&model.CashMovement{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot fully
// handle on its own. Each statement uses IF NOT EXISTS semantics so re-running
// on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// gen_random_uuid() needs pgcrypto on Postgres < 13 setups
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		// at most one open shift at any time — the service pre-checks, this
		// partial unique index closes the race
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_shifts_single_open') THEN
		    CREATE UNIQUE INDEX idx_shifts_single_open
		        ON shifts ((true))
		        WHERE closed_at IS NULL;
		  END IF;
		END $$`,
		// ticket numbering for order codes
		`CREATE SEQUENCE IF NOT EXISTS order_code_seq`,
		// ledger queries scan one ingredient's full history
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_inventory_movements_ingredient_created') THEN
		    CREATE INDEX idx_inventory_movements_ingredient_created
		        ON inventory_movements (ingredient_id, created_at);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
