package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

type SettleRequest struct {
	OrderID       string
	Points        int64
	Total         int64
	PaymentMethod string
}

type Service interface {
	// Settle closes an open order into a bill in one transaction: lock
	// order, recompute the total from the line snapshot, redeem or earn
	// points, write the bill, release the table last. Any failure rolls
	// the whole settlement back.
	Settle(context.Context, SettleRequest) (Bill, error)
	GetBill(ctx context.Context, id string) (Bill, error)
	GetBillByOrder(ctx context.Context, orderID string) (Bill, error)
	ListBills(ctx context.Context, from, to time.Time) ([]Bill, error)
	Revenue(ctx context.Context, from, to time.Time) (RevenueReport, error)
	// Receipt renders the printable PDF for a settled bill.
	Receipt(ctx context.Context, id string) (io.Reader, error)
}

var (
	ErrInvalidRestaurant = errors.New("invalid_restaurant")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidPayment    = errors.New("invalid_payment_method")
	ErrInvalidRange      = errors.New("invalid_date_range")
	ErrNotFound          = errors.New("bill_not_found")
)
