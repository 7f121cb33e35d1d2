package model

import "time"

// AttributeCategory is a variation axis such as Size or Color.
type AttributeCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Label       string    `gorm:"type:varchar(255);not null" json:"label"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"` // Royal order position, 0 = unset
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Values []AttributeValue `gorm:"foreignKey:CategoryID" json:"values,omitempty"`
}

func (AttributeCategory) TableName() string { return "product_attribute_categories" }

// AttributeValue is one allowed value of a category.
type AttributeValue struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_attribute_value_slug" json:"category_id"`
	Value      string    `gorm:"type:varchar(255);not null" json:"value"`
	Slug       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_value_slug" json:"slug"`
	SortOrder  int       `gorm:"not null;default:0" json:"sort_order"`
	Active     bool      `gorm:"not null" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (AttributeValue) TableName() string { return "product_attribute_values" }

// CategoryAssignment declares that a product varies along a category.
type CategoryAssignment struct {
	StockID    string    `gorm:"type:varchar(64);primaryKey" json:"stock_id"`
	CategoryID uint      `gorm:"primaryKey;autoIncrement:false" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (CategoryAssignment) TableName() string { return "product_attribute_category_assignments" }

// AttributeAssignment is a value-level assignment. ParentStockID mirrors the stock row's parent.
type AttributeAssignment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StockID       string    `gorm:"type:varchar(64);not null;index" json:"stock_id"`
	CategoryID    uint      `gorm:"not null;index" json:"category_id"`
	ValueID       uint      `gorm:"not null;index" json:"value_id"`
	SortOrder     int       `gorm:"not null;default:0" json:"sort_order"`
	ParentStockID *string   `gorm:"type:varchar(64);index" json:"parent_stock_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (AttributeAssignment) TableName() string { return "product_attribute_assignments" }

// AssignmentDetail is an AttributeAssignment joined with its category and value.
type AssignmentDetail struct {
	ID                uint    `json:"id"`
	StockID           string  `json:"stock_id"`
	CategoryID        uint    `json:"category_id"`
	CategoryCode      string  `json:"category_code"`
	CategoryLabel     string  `json:"category_label"`
	CategorySortOrder int     `json:"category_sort_order"`
	ValueID           uint    `json:"value_id"`
	Value             string  `json:"value"`
	ValueSlug         string  `json:"value_slug"`
	ValueSortOrder    int     `json:"value_sort_order"`
	SortOrder         int     `json:"sort_order"`
	ParentStockID     *string `json:"parent_stock_id"`
}
