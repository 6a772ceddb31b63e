package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	billingdomain "github.com/tabletab/tabletab/internal/billing/domain"
	catalogdomain "github.com/tabletab/tabletab/internal/catalog/domain"
	customerdomain "github.com/tabletab/tabletab/internal/customer/domain"
	orderdomain "github.com/tabletab/tabletab/internal/order/domain"
	restaurantdomain "github.com/tabletab/tabletab/internal/restaurant/domain"
	tabledomain "github.com/tabletab/tabletab/internal/table/domain"
	"gorm.io/gorm"
)

// RunMigrations applies the embedded schema so the service is usable out
// of the box on a fresh database.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrateSchema builds the schema from the domain models. The SQL
// migration scripts target postgres; the mysql and sqlite dialects use
// this path so seeding always finds a schema.
func AutoMigrateSchema(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	return conn.AutoMigrate(
		&restaurantdomain.Restaurant{},
		&tabledomain.Table{},
		&customerdomain.Customer{},
		&catalogdomain.Dish{},
		&catalogdomain.Combo{},
		&orderdomain.Order{},
		&orderdomain.OrderLine{},
		&billingdomain.Bill{},
	)
}
