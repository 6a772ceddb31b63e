package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Bill is the immutable settlement record for an order. The unique index
// on order_id is what makes settlement once-only.
type Bill struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID       snowflake.ID `gorm:"not null;uniqueIndex" json:"order_id"`
	RestaurantID  snowflake.ID `gorm:"not null;index" json:"restaurant_id"`
	Total         int64        `gorm:"not null" json:"total"`
	PointUsed     int64        `gorm:"not null;default:0" json:"point_used"`
	PointEarned   int64        `gorm:"not null;default:0" json:"point_earned"`
	PaymentMethod string       `gorm:"not null;default:cash" json:"payment_method"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Bill) TableName() string {
	return "bills"
}

// DailyRevenue is one day of settled totals.
type DailyRevenue struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
	Bills int64  `json:"bills"`
}

// RevenueReport aggregates bills over a date range. VATPortion is the tax
// share embedded in Total when the restaurant has VAT active.
type RevenueReport struct {
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	Total      int64          `json:"total"`
	VATPortion int64          `json:"vat_portion"`
	Days       []DailyRevenue `json:"days"`
}
