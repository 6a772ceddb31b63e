package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateTableRequest struct {
	Label    string
	Capacity int
	Position string
}

type Service interface {
	Create(context.Context, CreateTableRequest) (Table, error)
	List(ctx context.Context) ([]Table, error)
	GetByID(ctx context.Context, id string) (Table, error)
	// CurrentOrder returns the id of the open order occupying the table,
	// or nil when the table is free.
	CurrentOrder(ctx context.Context, id string) (*snowflake.ID, error)
	// Release clears the occupancy. Idempotent.
	Release(ctx context.Context, id string) error
}

var (
	ErrInvalidRestaurant = errors.New("invalid_restaurant")
	ErrInvalidLabel      = errors.New("invalid_label")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("table_not_found")
	ErrTableBusy         = errors.New("table_busy")
)
