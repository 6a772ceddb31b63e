package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, table *Table) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Table, error)
	// FindByIDForUpdate locks the table row for the duration of the
	// surrounding transaction.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Table, error)
	// SetCurrentOrder occupies (non-nil orderID) or releases (nil) the table.
	SetCurrentOrder(ctx context.Context, db *gorm.DB, tableID snowflake.ID, orderID *snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*Table, error)
}
