package repository

import (
	"context"

	"productattrs/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository interface {
	ListCategoryAssignments(ctx context.Context, stockID string) ([]model.AttributeCategory, error)
	CategoryIDs(ctx context.Context, stockID string) ([]uint, error)
	AddCategoryAssignment(ctx context.Context, stockID string, categoryID uint) error
	RemoveCategoryAssignment(ctx context.Context, stockID string, categoryID uint) error
	ClearCategoryAssignments(ctx context.Context, stockID string) error

	ListAssignments(ctx context.Context, stockID string) ([]model.AssignmentDetail, error)
	FindAssignment(ctx context.Context, stockID string, categoryID, valueID uint) (*model.AttributeAssignment, error)
	AddAssignment(ctx context.Context, assignment *model.AttributeAssignment) error
	AddAssignments(ctx context.Context, assignments []model.AttributeAssignment) error
	DeleteAssignment(ctx context.Context, id uint) error
	DeleteAssignmentsForStock(ctx context.Context, stockID string) error
	CopyParentValueAssignments(ctx context.Context, childStockID, parentStockID string) (int64, error)

	GetProductParent(ctx context.Context, stockID string) (string, error)
	SetParentRelationship(ctx context.Context, stockID, parentStockID string) error
	ClearParentRelationship(ctx context.Context, stockID string) error
	DetachChildren(ctx context.Context, parentStockID string) error
	ChildStockIDs(ctx context.Context, parentStockID string) ([]string, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// ListCategoryAssignments returns the categories a product varies along, in royal order.
func (r *assignmentRepository) ListCategoryAssignments(ctx context.Context, stockID string) ([]model.AttributeCategory, error) {
	var categories []model.AttributeCategory
	err := GetDB(ctx, r.db).
		Joins("JOIN product_attribute_category_assignments ca ON ca.category_id = product_attribute_categories.id").
		Where("ca.stock_id = ?", stockID).
		Order("product_attribute_categories.sort_order, product_attribute_categories.code").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *assignmentRepository) CategoryIDs(ctx context.Context, stockID string) ([]uint, error) {
	var ids []uint
	if err := GetDB(ctx, r.db).Model(&model.CategoryAssignment{}).
		Where("stock_id = ?", stockID).Order("category_id").
		Pluck("category_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *assignmentRepository) AddCategoryAssignment(ctx context.Context, stockID string, categoryID uint) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CategoryAssignment{StockID: stockID, CategoryID: categoryID}).Error
}

func (r *assignmentRepository) RemoveCategoryAssignment(ctx context.Context, stockID string, categoryID uint) error {
	return GetDB(ctx, r.db).Where("stock_id = ? AND category_id = ?", stockID, categoryID).
		Delete(&model.CategoryAssignment{}).Error
}

func (r *assignmentRepository) ClearCategoryAssignments(ctx context.Context, stockID string) error {
	return GetDB(ctx, r.db).Where("stock_id = ?", stockID).Delete(&model.CategoryAssignment{}).Error
}

// ListAssignments returns value-level assignments joined with category and value details.
func (r *assignmentRepository) ListAssignments(ctx context.Context, stockID string) ([]model.AssignmentDetail, error) {
	var rows []model.AssignmentDetail
	err := GetDB(ctx, r.db).Table("product_attribute_assignments a").
		Select(`a.id, a.stock_id, a.category_id, c.code AS category_code, c.label AS category_label,
			c.sort_order AS category_sort_order, a.value_id, v.value, v.slug AS value_slug,
			v.sort_order AS value_sort_order, a.sort_order, a.parent_stock_id`).
		Joins("JOIN product_attribute_categories c ON c.id = a.category_id").
		Joins("JOIN product_attribute_values v ON v.id = a.value_id").
		Where("a.stock_id = ?", stockID).
		Order("c.sort_order, c.code, v.sort_order, v.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *assignmentRepository) FindAssignment(ctx context.Context, stockID string, categoryID, valueID uint) (*model.AttributeAssignment, error) {
	var a model.AttributeAssignment
	if err := GetDB(ctx, r.db).
		Where("stock_id = ? AND category_id = ? AND value_id = ?", stockID, categoryID, valueID).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) AddAssignment(ctx context.Context, assignment *model.AttributeAssignment) error {
	return GetDB(ctx, r.db).Create(assignment).Error
}

func (r *assignmentRepository) AddAssignments(ctx context.Context, assignments []model.AttributeAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&assignments).Error
}

func (r *assignmentRepository) DeleteAssignment(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.AttributeAssignment{}).Error
}

func (r *assignmentRepository) DeleteAssignmentsForStock(ctx context.Context, stockID string) error {
	return GetDB(ctx, r.db).Where("stock_id = ?", stockID).Delete(&model.AttributeAssignment{}).Error
}

// CopyParentValueAssignments gives the child the parent's value-level assignments, pointing back at
// the parent. Returns the number of rows copied.
func (r *assignmentRepository) CopyParentValueAssignments(ctx context.Context, childStockID, parentStockID string) (int64, error) {
	var parentRows []model.AttributeAssignment
	db := GetDB(ctx, r.db)
	if err := db.Where("stock_id = ?", parentStockID).Order("id").Find(&parentRows).Error; err != nil {
		return 0, err
	}
	if len(parentRows) == 0 {
		return 0, nil
	}

	parent := parentStockID
	rows := make([]model.AttributeAssignment, len(parentRows))
	for i, p := range parentRows {
		rows[i] = model.AttributeAssignment{
			StockID:       childStockID,
			CategoryID:    p.CategoryID,
			ValueID:       p.ValueID,
			SortOrder:     p.SortOrder,
			ParentStockID: &parent,
		}
	}
	if err := db.Create(&rows).Error; err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// GetProductParent returns the first non-empty parent recorded on the product's assignment rows.
func (r *assignmentRepository) GetProductParent(ctx context.Context, stockID string) (string, error) {
	var parents []string
	if err := GetDB(ctx, r.db).Model(&model.AttributeAssignment{}).
		Where("stock_id = ? AND parent_stock_id IS NOT NULL AND parent_stock_id <> ''", stockID).
		Limit(1).Pluck("parent_stock_id", &parents).Error; err != nil {
		return "", err
	}
	if len(parents) == 0 {
		return "", nil
	}
	return parents[0], nil
}

func (r *assignmentRepository) SetParentRelationship(ctx context.Context, stockID, parentStockID string) error {
	return GetDB(ctx, r.db).Model(&model.AttributeAssignment{}).
		Where("stock_id = ?", stockID).
		Update("parent_stock_id", parentStockID).Error
}

func (r *assignmentRepository) ClearParentRelationship(ctx context.Context, stockID string) error {
	return GetDB(ctx, r.db).Model(&model.AttributeAssignment{}).
		Where("stock_id = ?", stockID).
		Update("parent_stock_id", nil).Error
}

// DetachChildren clears the parent reference on every assignment row pointing at parentStockID.
func (r *assignmentRepository) DetachChildren(ctx context.Context, parentStockID string) error {
	return GetDB(ctx, r.db).Model(&model.AttributeAssignment{}).
		Where("parent_stock_id = ?", parentStockID).
		Update("parent_stock_id", nil).Error
}

func (r *assignmentRepository) ChildStockIDs(ctx context.Context, parentStockID string) ([]string, error) {
	var ids []string
	if err := GetDB(ctx, r.db).Model(&model.AttributeAssignment{}).
		Where("parent_stock_id = ?", parentStockID).
		Distinct().Order("stock_id").
		Pluck("stock_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
