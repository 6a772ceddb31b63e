package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Table is a seating table. CurrentOrderID is set while an open order
// occupies it and cleared on settlement; at most one open order may hold
// a table at any time.
type Table struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	RestaurantID   snowflake.ID  `gorm:"not null;index" json:"restaurant_id"`
	Label          string        `gorm:"not null" json:"label"`
	Capacity       int           `gorm:"not null;default:0" json:"capacity"`
	Position       string        `json:"position,omitempty"`
	CurrentOrderID *snowflake.ID `json:"current_order_id,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Table) TableName() string {
	return "tables"
}
