package domain

import (
	"context"
	"errors"
)

type CreateRestaurantRequest struct {
	Name           string
	Address        string
	Phone          string
	PaymentMethods []string
}

type UpdateSettingsRequest struct {
	ID           string
	MoneyToPoint *int64
	PointToMoney *int64
	VATEnabled   *bool
	VATRate      *float64
}

type Service interface {
	Create(context.Context, CreateRestaurantRequest) (Restaurant, error)
	GetByID(ctx context.Context, id string) (Restaurant, error)
	List(ctx context.Context) ([]Restaurant, error)
	UpdateSettings(context.Context, UpdateSettingsRequest) (Restaurant, error)
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidLoyalty = errors.New("invalid_loyalty_ratio")
	ErrInvalidVATRate = errors.New("invalid_vat_rate")
	ErrNotFound       = errors.New("restaurant_not_found")
)
