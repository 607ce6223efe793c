package infra

import (
	"fmt"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx and brings the schema up
// to date. TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey.
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

// RunMigrations creates or updates every table the kiosk uses, then applies
// the Postgres-only patches GORM tags cannot express. It is idempotent.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.CierreCaja{},
		&model.Venta{},
		&model.VentaPago{},
		&model.PedidoAlmuerzo{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches adds CHECK constraints guarding the money invariants.
// Each statement is guarded by an existence check so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"cash_registers monto_inicial >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cash_registers_monto_inicial') THEN
    ALTER TABLE cash_registers
      ADD CONSTRAINT chk_cash_registers_monto_inicial CHECK (monto_inicial >= 0);
  END IF;
END $$`},
		{"cash_registers estado", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cash_registers_estado') THEN
    ALTER TABLE cash_registers
      ADD CONSTRAINT chk_cash_registers_estado CHECK (estado IN ('abierta', 'cerrada'));
  END IF;
END $$`},
		{"cash_movements monto > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cash_movements_monto') THEN
    ALTER TABLE cash_movements
      ADD CONSTRAINT chk_cash_movements_monto CHECK (monto > 0);
  END IF;
END $$`},
		{"cash_movements tipo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cash_movements_tipo') THEN
    ALTER TABLE cash_movements
      ADD CONSTRAINT chk_cash_movements_tipo CHECK (tipo IN ('ingreso', 'egreso', 'ajuste'));
  END IF;
END $$`},
		{"cash_closures sales window index", `
CREATE INDEX IF NOT EXISTS idx_ventas_sede_created ON ventas (sede_id, created_at)`},
		{"lunch_orders sales window index", `
CREATE INDEX IF NOT EXISTS idx_lunch_orders_sede_created ON lunch_orders (sede_id, created_at)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
