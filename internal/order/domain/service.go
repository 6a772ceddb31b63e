package domain

import (
	"context"
	"errors"
)

type OpenOrderRequest struct {
	TableID       string
	CustomerPhone string
	EmployeeID    string
}

type LineInput struct {
	DishID   string
	ComboID  string
	Quantity int64
}

type AddLinesRequest struct {
	OrderID string
	Lines   []LineInput
}

type Service interface {
	// Open creates an order for the customer identified by phone and
	// occupies the table, atomically. A table already holding an open
	// order rejects with table_busy.
	Open(context.Context, OpenOrderRequest) (Order, error)
	// AddLines appends priced line snapshots to an open order. Settled
	// orders reject with order_settled.
	AddLines(context.Context, AddLinesRequest) ([]OrderLine, error)
	View(ctx context.Context, orderID string) (OrderView, error)
	// FindByTable returns the open order on a table, nil when free.
	FindByTable(ctx context.Context, tableID string) (*Order, error)
	// AdvanceLine moves a line through the kitchen state machine:
	// waiting -> prepare -> done, with decline allowed from waiting and
	// prepare. Done and decline are terminal.
	AdvanceLine(ctx context.Context, lineID string, status LineStatus) (OrderLine, error)
}

var (
	ErrInvalidRestaurant = errors.New("invalid_restaurant")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidLine       = errors.New("invalid_line")
	ErrInvalidStatus     = errors.New("invalid_line_status")
	ErrNotFound          = errors.New("order_not_found")
	ErrSettled           = errors.New("order_settled")
)
