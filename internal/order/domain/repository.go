package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	// FindByIDForUpdate locks the order row; AddLines and Settle serialize
	// on this lock.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Order, error)
	// FindOpenByTable resolves the order currently occupying a table, nil
	// when the table is free.
	FindOpenByTable(ctx context.Context, db *gorm.DB, tableID snowflake.ID) (*Order, error)

	InsertLines(ctx context.Context, db *gorm.DB, lines []*OrderLine) error
	LinesByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]*OrderLine, error)
	FindLineByIDForUpdate(ctx context.Context, tx *gorm.DB, lineID snowflake.ID) (*OrderLine, error)
	UpdateLineStatus(ctx context.Context, db *gorm.DB, lineID snowflake.ID, status LineStatus) error

	// HasBill reports whether a settlement row exists for the order.
	HasBill(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (bool, error)
}
