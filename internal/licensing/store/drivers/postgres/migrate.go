package postgres

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/licensor/internal/licensing/store/drivers/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
)

// ApplyMigrations applies any pending embedded migrations.
func (s *Store) ApplyMigrations() (err error) {
	// 1. Borrow a database/sql handle over the pool for the migrate driver
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	// 2. Create the Postgres migration driver
	driver, err := migratepg.WithInstance(db, &migratepg.Config{SchemaName: "public"})
	if err != nil {
		return fmt.Errorf("postgres migrate driver: %w", err)
	}

	// 3. Create the iofs (embedded filesystem) source driver
	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	// 4. Create the migrate instance and apply all up migrations
	instance, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}

	// 5. Closing the instance hands the driver's dedicated conn back to the pool
	defer func() {
		srcErr, dbErr := instance.Close()
		if cerr := errors.Join(srcErr, dbErr); cerr != nil && err == nil {
			err = fmt.Errorf("close migrate: %w", cerr)
		}
	}()

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return fmt.Errorf("migration failed: dirty database version %d", dirty.Version)
		}
		return err
	}
	return nil
}
