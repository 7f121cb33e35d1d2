package repository

import (
	"context"

	"productattrs/internal/model"

	"gorm.io/gorm"
)

type AttributeRepository interface {
	ListCategories(ctx context.Context) ([]model.AttributeCategory, error)
	FindCategoryByID(ctx context.Context, id uint) (*model.AttributeCategory, error)
	FindCategoryByCode(ctx context.Context, code string) (*model.AttributeCategory, error)
	FindCategoriesByIDs(ctx context.Context, ids []uint) ([]model.AttributeCategory, error)
	SaveCategory(ctx context.Context, category *model.AttributeCategory) error
	DeleteCategory(ctx context.Context, id uint) error

	ListValues(ctx context.Context, categoryID uint) ([]model.AttributeValue, error)
	ListActiveValues(ctx context.Context, categoryID uint) ([]model.AttributeValue, error)
	FindValueByID(ctx context.Context, id uint) (*model.AttributeValue, error)
	FindValueBySlug(ctx context.Context, categoryID uint, slug string) (*model.AttributeValue, error)
	SaveValue(ctx context.Context, value *model.AttributeValue) error
	DeleteValue(ctx context.Context, id uint) error
}

type attributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) ListCategories(ctx context.Context) ([]model.AttributeCategory, error) {
	var categories []model.AttributeCategory
	if err := GetDB(ctx, r.db).Order("sort_order, code").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *attributeRepository) FindCategoryByID(ctx context.Context, id uint) (*model.AttributeCategory, error) {
	var category model.AttributeCategory
	if err := GetDB(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *attributeRepository) FindCategoryByCode(ctx context.Context, code string) (*model.AttributeCategory, error) {
	var category model.AttributeCategory
	if err := GetDB(ctx, r.db).Where("code = ?", code).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *attributeRepository) FindCategoriesByIDs(ctx context.Context, ids []uint) ([]model.AttributeCategory, error) {
	var categories []model.AttributeCategory
	if len(ids) == 0 {
		return categories, nil
	}
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Order("sort_order, code").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *attributeRepository) SaveCategory(ctx context.Context, category *model.AttributeCategory) error {
	return GetDB(ctx, r.db).Omit("Values").Save(category).Error
}

// DeleteCategory removes the category together with its values and every assignment or
// pricing rule that references it. Callers wrap it in a transaction.
func (r *attributeRepository) DeleteCategory(ctx context.Context, id uint) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("category_id = ?", id).Delete(&model.PricingRule{}).Error; err != nil {
		return err
	}
	if err := db.Where("category_id = ?", id).Delete(&model.AttributeAssignment{}).Error; err != nil {
		return err
	}
	if err := db.Where("category_id = ?", id).Delete(&model.CategoryAssignment{}).Error; err != nil {
		return err
	}
	if err := db.Where("category_id = ?", id).Delete(&model.AttributeValue{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.AttributeCategory{}).Error
}

func (r *attributeRepository) ListValues(ctx context.Context, categoryID uint) ([]model.AttributeValue, error) {
	var values []model.AttributeValue
	if err := GetDB(ctx, r.db).Where("category_id = ?", categoryID).
		Order("sort_order, id").Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *attributeRepository) ListActiveValues(ctx context.Context, categoryID uint) ([]model.AttributeValue, error) {
	var values []model.AttributeValue
	if err := GetDB(ctx, r.db).Where("category_id = ? AND active = ?", categoryID, true).
		Order("sort_order, id").Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *attributeRepository) FindValueByID(ctx context.Context, id uint) (*model.AttributeValue, error) {
	var value model.AttributeValue
	if err := GetDB(ctx, r.db).First(&value, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *attributeRepository) FindValueBySlug(ctx context.Context, categoryID uint, slug string) (*model.AttributeValue, error) {
	var value model.AttributeValue
	if err := GetDB(ctx, r.db).Where("category_id = ? AND slug = ?", categoryID, slug).First(&value).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *attributeRepository) SaveValue(ctx context.Context, value *model.AttributeValue) error {
	return GetDB(ctx, r.db).Save(value).Error
}

func (r *attributeRepository) DeleteValue(ctx context.Context, id uint) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("value_id = ?", id).Delete(&model.PricingRule{}).Error; err != nil {
		return err
	}
	if err := db.Where("value_id = ?", id).Delete(&model.AttributeAssignment{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.AttributeValue{}).Error
}
