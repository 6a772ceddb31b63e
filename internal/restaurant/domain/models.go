package domain

import (
	"database/sql/driver"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is a text[] column on postgres; the other dialects store the
// same array literal in a plain text column.
type StringList pq.StringArray

func (s *StringList) Scan(src any) error {
	return (*pq.StringArray)(s).Scan(src)
}

func (s StringList) Value() (driver.Value, error) {
	return pq.StringArray(s).Value()
}

func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

type Restaurant struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	Name    string       `gorm:"not null" json:"name"`
	Slug    string       `gorm:"not null;uniqueIndex" json:"slug"`
	Address string       `json:"address,omitempty"`
	Phone   string       `json:"phone,omitempty"`

	// MoneyToPoint is the money amount that earns 1 loyalty point.
	MoneyToPoint int64 `gorm:"not null" json:"money_to_point"`
	// PointToMoney is the money value of 1 loyalty point.
	PointToMoney int64 `gorm:"not null" json:"point_to_money"`

	VATEnabled bool    `gorm:"not null;default:false" json:"vat_enabled"`
	VATRate    float64 `gorm:"not null;default:0" json:"vat_rate"`

	PaymentMethods StringList        `gorm:"not null" json:"payment_methods"`
	Metadata       datatypes.JSONMap `gorm:"not null;default:'{}'" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}
