package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/pkg/db/pagination"
	"gorm.io/gorm"
)

type CreateCustomerRequest struct {
	Phone   string
	Name    string
	Address string
}

// Service is the loyalty ledger. ApplyRedeem and ApplyEarn take the
// settlement transaction so balance changes commit or roll back with the
// bill; exactly one of them is applied per settlement.
type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	FindByPhone(ctx context.Context, phone string) (Customer, error)
	List(ctx context.Context, page pagination.Pagination) ([]Customer, *pagination.PageInfo, error)

	// ApplyRedeem debits points. Fails with ErrPointInvalid when the
	// balance would go negative; TotalPoint is untouched.
	ApplyRedeem(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, points int64) (Customer, error)
	// ApplyEarn credits floor(amountPaid/moneyToPoint) to both CurrentPoint
	// and TotalPoint, and reports the earned amount.
	ApplyEarn(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amountPaid, moneyToPoint int64) (Customer, int64, error)
}

var (
	ErrInvalidRestaurant = errors.New("invalid_restaurant")
	ErrInvalidPhone      = errors.New("invalid_phone")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidPoints     = errors.New("invalid_points")
	ErrPhoneExists       = errors.New("phone_exists")
	ErrNotFound          = errors.New("customer_not_found")
	ErrPointInvalid      = errors.New("point_invalid")
)
