package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Dish struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	RestaurantID snowflake.ID `gorm:"not null;index" json:"restaurant_id"`
	Name         string       `gorm:"not null" json:"name"`
	Price        int64        `gorm:"not null" json:"price"`
	Available    bool         `gorm:"not null;default:true" json:"available"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Dish) TableName() string {
	return "dishes"
}

type Combo struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	RestaurantID snowflake.ID `gorm:"not null;index" json:"restaurant_id"`
	Name         string       `gorm:"not null" json:"name"`
	Price        int64        `gorm:"not null" json:"price"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Combo) TableName() string {
	return "combos"
}

// Item is the resolved view an order line is priced from.
type Item struct {
	Name      string
	UnitPrice int64
}
