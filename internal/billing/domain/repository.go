package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert writes the bill with ON CONFLICT (order_id) DO NOTHING and
	// reports whether the row was actually written. A losing writer sees
	// false and must treat the order as already settled.
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	FindByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (*Bill, error)
	List(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, from, to time.Time) ([]*Bill, error)
}
