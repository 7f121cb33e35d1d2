package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingRule is a persisted price adjustment for one attribute value.
type PricingRule struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	ValueID     uint            `gorm:"not null;index" json:"value_id"`
	Type        string          `gorm:"type:varchar(20);not null" json:"type"` // fixed, percentage, combined
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"amount"`
	FixedAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"fixed_amount"`
	Percentage  decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"percentage"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	Active      bool            `gorm:"not null" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Category *AttributeCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Value    *AttributeValue    `gorm:"foreignKey:ValueID" json:"value,omitempty"`
}

func (PricingRule) TableName() string { return "product_attribute_pricing_rules" }
