package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateDishRequest struct {
	Name  string
	Price int64
}

type CreateComboRequest struct {
	Name  string
	Price int64
}

// Service is the catalog lookup the order ledger prices lines from.
// Exactly one of dishID/comboID must be set on Resolve.
type Service interface {
	Resolve(ctx context.Context, restaurantID snowflake.ID, dishID, comboID *snowflake.ID) (Item, error)
	CreateDish(context.Context, CreateDishRequest) (Dish, error)
	CreateCombo(context.Context, CreateComboRequest) (Combo, error)
	ListDishes(ctx context.Context) ([]Dish, error)
	ListCombos(ctx context.Context) ([]Combo, error)
}

var (
	ErrInvalidRestaurant = errors.New("invalid_restaurant")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidPrice      = errors.New("invalid_price")
	ErrInvalidLine       = errors.New("invalid_line")
	ErrDishNotFound      = errors.New("dish_not_found")
	ErrComboNotFound     = errors.New("combo_not_found")
)
