package repository

import (
	"context"

	"productattrs/internal/model"

	"gorm.io/gorm"
)

type PricingRuleRepository interface {
	Save(ctx context.Context, rule *model.PricingRule) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.PricingRule, error)
	List(ctx context.Context) ([]model.PricingRule, error)
	ListActive(ctx context.Context) ([]model.PricingRule, error)
}

type pricingRuleRepository struct {
	db *gorm.DB
}

func NewPricingRuleRepository(db *gorm.DB) PricingRuleRepository {
	return &pricingRuleRepository{db: db}
}

func (r *pricingRuleRepository) Save(ctx context.Context, rule *model.PricingRule) error {
	return GetDB(ctx, r.db).Omit("Category", "Value").Save(rule).Error
}

func (r *pricingRuleRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PricingRule{}).Error
}

func (r *pricingRuleRepository) FindByID(ctx context.Context, id uint) (*model.PricingRule, error) {
	var rule model.PricingRule
	if err := GetDB(ctx, r.db).Preload("Category").Preload("Value").First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *pricingRuleRepository) List(ctx context.Context) ([]model.PricingRule, error) {
	var rules []model.PricingRule
	if err := GetDB(ctx, r.db).Preload("Category").Preload("Value").
		Order("position, id").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// ListActive returns active rules with their category and value, in application order.
func (r *pricingRuleRepository) ListActive(ctx context.Context) ([]model.PricingRule, error) {
	var rules []model.PricingRule
	if err := GetDB(ctx, r.db).Preload("Category").Preload("Value").
		Where("active = ?", true).Order("position, id").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
