package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	// FindByIDForUpdate locks the customer row for the duration of the
	// surrounding transaction.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Customer, error)
	FindByPhone(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, phone string) (*Customer, error)
	UpdatePoints(ctx context.Context, db *gorm.DB, id snowflake.ID, currentPoint, totalPoint int64) error
	// List fetches one page plus one extra row so the caller can tell
	// whether more pages exist.
	List(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, page pagination.Pagination) ([]*Customer, error)
}
