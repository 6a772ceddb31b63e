package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/config"
	restaurantdomain "github.com/tabletab/tabletab/internal/restaurant/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultRestaurantName = "Main"
	defaultRestaurantSlug = "main"
)

// EnsureDefaultRestaurant seeds a restaurant for startup bootstrap so the
// service is usable out of the box.
func EnsureDefaultRestaurant(db *gorm.DB, policy config.POSConfig) error {
	return ensure(db, policy, 0)
}

// EnsureDefaultRestaurantWithID seeds a restaurant with a fixed id.
func EnsureDefaultRestaurantWithID(db *gorm.DB, policy config.POSConfig, id int64) error {
	return ensure(db, policy, snowflake.ID(id))
}

func ensure(db *gorm.DB, policy config.POSConfig, id snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing restaurantdomain.Restaurant
		err := tx.WithContext(ctx).
			Where("slug = ?", defaultRestaurantSlug).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if id == 0 {
			id = node.Generate()
		}
		restaurant := restaurantdomain.Restaurant{
			ID:             id,
			Name:           defaultRestaurantName,
			Slug:           defaultRestaurantSlug,
			MoneyToPoint:   policy.DefaultMoneyToPoint,
			PointToMoney:   policy.DefaultPointToMoney,
			VATEnabled:     policy.DefaultVATEnabled,
			VATRate:        policy.DefaultVATRate,
			PaymentMethods: []string{"cash", "card"},
			Metadata:       datatypes.JSONMap{},
		}
		return tx.WithContext(ctx).Create(&restaurant).Error
	})
}
