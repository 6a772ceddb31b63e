package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Customer carries the loyalty balances. CurrentPoint never goes negative;
// TotalPoint tracks lifetime earned points and only grows.
type Customer struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	RestaurantID snowflake.ID      `gorm:"not null;index" json:"restaurant_id"`
	Phone        string            `gorm:"not null" json:"phone"`
	Name         string            `gorm:"not null" json:"name"`
	Address      string            `json:"address,omitempty"`
	CurrentPoint int64             `gorm:"not null;default:0" json:"current_point"`
	TotalPoint   int64             `gorm:"not null;default:0" json:"total_point"`
	Metadata     datatypes.JSONMap `gorm:"not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
