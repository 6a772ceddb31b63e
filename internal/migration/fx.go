package migration

import (
	"github.com/tabletab/tabletab/internal/config"
	"github.com/tabletab/tabletab/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, pos *config.POSConfigHolder) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := AutoMigrateSchema(conn); err != nil {
			return err
		}

		if cfg.DefaultRestaurantID != 0 {
			return seed.EnsureDefaultRestaurantWithID(conn, pos.Current(), cfg.DefaultRestaurantID)
		}
		return seed.EnsureDefaultRestaurant(conn, pos.Current())
	}),
)
