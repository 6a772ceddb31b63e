package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type LineStatus string

const (
	LineStatusWaiting LineStatus = "waiting"
	LineStatusPrepare LineStatus = "prepare"
	LineStatusDone    LineStatus = "done"
	LineStatusDecline LineStatus = "decline"
)

func ParseLineStatus(value string) (LineStatus, error) {
	switch LineStatus(value) {
	case LineStatusWaiting, LineStatusPrepare, LineStatusDone, LineStatusDecline:
		return LineStatus(value), nil
	}
	return "", ErrInvalidStatus
}

// Order is a ticket opened against a table. It stays open until a bill is
// written for it; there is no status column, the bills table is the source
// of truth for settlement.
type Order struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	RestaurantID snowflake.ID `gorm:"not null;index" json:"restaurant_id"`
	TableID      snowflake.ID `gorm:"not null;index" json:"table_id"`
	CustomerID   snowflake.ID `gorm:"not null" json:"customer_id"`
	EmployeeID   snowflake.ID `gorm:"not null;default:0" json:"employee_id,omitempty"`
	OpenedAt     time.Time    `gorm:"not null" json:"opened_at"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine snapshots name and unit price at append time so later catalog
// edits never change an open ticket. Exactly one of DishID/ComboID is set.
type OrderLine struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrderID   snowflake.ID  `gorm:"not null;index" json:"order_id"`
	DishID    *snowflake.ID `json:"dish_id,omitempty"`
	ComboID   *snowflake.ID `json:"combo_id,omitempty"`
	Name      string        `gorm:"not null" json:"name"`
	UnitPrice int64         `gorm:"not null" json:"unit_price"`
	Quantity  int64         `gorm:"not null" json:"quantity"`
	Status    LineStatus    `gorm:"not null;default:waiting" json:"status"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// OrderView is the computed read model for a ticket.
type OrderView struct {
	Order      Order       `json:"order"`
	Lines      []OrderLine `json:"lines"`
	TotalMoney int64       `json:"total_money"`
	TotalDish  int64       `json:"total_dish"`
}
