package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateVariations  = "CREATE_VARIATIONS"
	ActionCreateChild       = "CREATE_CHILD"
	ActionUpdateProductType = "UPDATE_PRODUCT_TYPE"
	ActionUpsertCategory    = "UPSERT_ATTRIBUTE_CATEGORY"
	ActionDeleteCategory    = "DELETE_ATTRIBUTE_CATEGORY"
	ActionUpsertValue       = "UPSERT_ATTRIBUTE_VALUE"
	ActionDeleteValue       = "DELETE_ATTRIBUTE_VALUE"
	ActionUpsertPricingRule = "UPSERT_PRICING_RULE"
	ActionDeletePricingRule = "DELETE_PRICING_RULE"
	ActionApplyRetroactive  = "APPLY_RETROACTIVE_SUGGESTION"
	ActionCleanupOnDelete   = "CLEANUP_ON_ITEM_DELETE"
)

// AuditLog tracks Who, What, and When for attribute and variation changes
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(100);index" json:"user_id"` // JWT subject, empty for automated calls
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(64);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:text" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
