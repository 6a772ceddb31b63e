package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, restaurant *Restaurant) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Restaurant, error)
	List(ctx context.Context, db *gorm.DB) ([]*Restaurant, error)
	UpdateSettings(ctx context.Context, db *gorm.DB, restaurant *Restaurant) error
}
