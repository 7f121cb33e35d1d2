package service

import (
	"context"
	"fmt"
	"strings"

	"productattrs/internal/model"
	"productattrs/internal/repository"
	"productattrs/internal/variation"
	ws "productattrs/internal/websocket"

	"github.com/rs/zerolog"
)

// DTOs
type UpsertCategoryRequest struct {
	ID          uint   `json:"id"`
	Code        string `json:"code" binding:"required"`
	Label       string `json:"label" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	Active      *bool  `json:"active"`
}

type UpsertValueRequest struct {
	ID        uint   `json:"id"`
	Value     string `json:"value" binding:"required"`
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order"`
	Active    *bool  `json:"active"`
}

type AddAssignmentRequest struct {
	ValueID   uint `json:"value_id" binding:"required"`
	SortOrder *int `json:"sort_order"`
}

type CategoryResponse struct {
	model.AttributeCategory
	RoyalOrderLabel string `json:"royal_order_label,omitempty"`
}

type AttributeService interface {
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
	UpsertCategory(ctx context.Context, userID string, req UpsertCategoryRequest) (*model.AttributeCategory, error)
	DeleteCategory(ctx context.Context, userID string, id uint) error

	ListValues(ctx context.Context, categoryID uint) ([]model.AttributeValue, error)
	UpsertValue(ctx context.Context, userID string, categoryID uint, req UpsertValueRequest) (*model.AttributeValue, error)
	DeleteValue(ctx context.Context, userID string, id uint) error

	ListCategoryAssignments(ctx context.Context, stockID string) ([]model.AttributeCategory, error)
	AddCategoryAssignment(ctx context.Context, stockID string, categoryID uint) error
	RemoveCategoryAssignment(ctx context.Context, stockID string, categoryID uint) error

	ListAssignments(ctx context.Context, stockID string) ([]model.AssignmentDetail, error)
	AddAssignment(ctx context.Context, stockID string, req AddAssignmentRequest) (*model.AttributeAssignment, error)
	DeleteAssignment(ctx context.Context, id uint) error
}

type attributeService struct {
	attrRepo   repository.AttributeRepository
	assignRepo repository.AssignmentRepository
	stockRepo  repository.StockRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	hub        *ws.Hub
	logger     zerolog.Logger
}

func NewAttributeService(
	attrRepo repository.AttributeRepository,
	assignRepo repository.AssignmentRepository,
	stockRepo repository.StockRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger zerolog.Logger,
) AttributeService {
	return &attributeService{
		attrRepo:   attrRepo,
		assignRepo: assignRepo,
		stockRepo:  stockRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		hub:        hub,
		logger:     logger.With().Str("component", "attributes").Logger(),
	}
}

func (s *attributeService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.attrRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{AttributeCategory: c, RoyalOrderLabel: variation.RoyalOrderLabel(c.SortOrder)})
	}
	return out, nil
}

// UpsertCategory updates by id, else by code, else creates.
func (s *attributeService) UpsertCategory(ctx context.Context, userID string, req UpsertCategoryRequest) (*model.AttributeCategory, error) {
	code := strings.TrimSpace(req.Code)
	label := strings.TrimSpace(req.Label)
	if code == "" || label == "" {
		return nil, variation.Invalidf("Code and label are required")
	}
	if req.SortOrder != 0 && !variation.IsValidRoyalOrder(req.SortOrder) {
		return nil, variation.Invalidf("Sort order must be between %d and %d", variation.MinRoyalOrder, variation.MaxRoyalOrder)
	}

	var category *model.AttributeCategory
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		switch {
		case req.ID != 0:
			category, err = s.attrRepo.FindCategoryByID(txCtx, req.ID)
			if notFound(err) {
				return fmt.Errorf("category %d: %w", req.ID, ErrNotFound)
			}
		default:
			category, err = s.attrRepo.FindCategoryByCode(txCtx, code)
			if notFound(err) {
				category, err = &model.AttributeCategory{Active: true}, nil
			}
		}
		if err != nil {
			return fmt.Errorf("failed to load category: %w", err)
		}

		category.Code = code
		category.Label = label
		category.Description = strings.TrimSpace(req.Description)
		category.SortOrder = req.SortOrder
		if req.Active != nil {
			category.Active = *req.Active
		}

		if err := s.attrRepo.SaveCategory(txCtx, category); err != nil {
			if isDuplicateKey(err) {
				return variation.Invalidf("Category code '%s' is already in use", code)
			}
			return fmt.Errorf("failed to save category: %w", err)
		}
		return writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpsertCategory, fmt.Sprint(category.ID), category.Code, req)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventAttributesChanged, map[string]interface{}{"category_id": category.ID})
	return category, nil
}

func (s *attributeService) DeleteCategory(ctx context.Context, userID string, id uint) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		category, err := s.attrRepo.FindCategoryByID(txCtx, id)
		if err != nil {
			if notFound(err) {
				return fmt.Errorf("category %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load category: %w", err)
		}
		if err := s.attrRepo.DeleteCategory(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeleteCategory, fmt.Sprint(id), category.Code, nil)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Uint("category_id", id).Msg("category deleted")
	s.hub.Publish(ws.EventAttributesChanged, map[string]interface{}{"category_id": id, "deleted": true})
	return nil
}

func (s *attributeService) ListValues(ctx context.Context, categoryID uint) ([]model.AttributeValue, error) {
	if _, err := s.attrRepo.FindCategoryByID(ctx, categoryID); err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	values, err := s.attrRepo.ListValues(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list values: %w", err)
	}
	return values, nil
}

// UpsertValue updates by id, else by (category, slug), else creates. A blank slug is derived from the value.
func (s *attributeService) UpsertValue(ctx context.Context, userID string, categoryID uint, req UpsertValueRequest) (*model.AttributeValue, error) {
	label := strings.TrimSpace(req.Value)
	slug := variation.Slugify(req.Slug)
	if slug == "" {
		slug = variation.Slugify(label)
	}
	if label == "" || slug == "" {
		return nil, variation.Invalidf("Value must contain at least one letter or digit")
	}

	var value *model.AttributeValue
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.attrRepo.FindCategoryByID(txCtx, categoryID); err != nil {
			if notFound(err) {
				return fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
			}
			return fmt.Errorf("failed to load category: %w", err)
		}

		var err error
		switch {
		case req.ID != 0:
			value, err = s.attrRepo.FindValueByID(txCtx, req.ID)
			if notFound(err) || (err == nil && value.CategoryID != categoryID) {
				return fmt.Errorf("value %d: %w", req.ID, ErrNotFound)
			}
		default:
			value, err = s.attrRepo.FindValueBySlug(txCtx, categoryID, slug)
			if notFound(err) {
				value, err = &model.AttributeValue{CategoryID: categoryID, Active: true}, nil
			}
		}
		if err != nil {
			return fmt.Errorf("failed to load value: %w", err)
		}

		value.Value = label
		value.Slug = slug
		value.SortOrder = req.SortOrder
		if req.Active != nil {
			value.Active = *req.Active
		}

		if err := s.attrRepo.SaveValue(txCtx, value); err != nil {
			if isDuplicateKey(err) {
				return variation.Invalidf("Slug '%s' is already used in this category", slug)
			}
			return fmt.Errorf("failed to save value: %w", err)
		}
		return writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpsertValue, fmt.Sprint(value.ID), value.Value, req)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventAttributesChanged, map[string]interface{}{"category_id": categoryID, "value_id": value.ID})
	return value, nil
}

func (s *attributeService) DeleteValue(ctx context.Context, userID string, id uint) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		value, err := s.attrRepo.FindValueByID(txCtx, id)
		if err != nil {
			if notFound(err) {
				return fmt.Errorf("value %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load value: %w", err)
		}
		if err := s.attrRepo.DeleteValue(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete value: %w", err)
		}
		return writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeleteValue, fmt.Sprint(id), value.Value, nil)
	})
}

func (s *attributeService) ListCategoryAssignments(ctx context.Context, stockID string) ([]model.AttributeCategory, error) {
	categories, err := s.assignRepo.ListCategoryAssignments(ctx, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category assignments: %w", err)
	}
	return categories, nil
}

// AddCategoryAssignment makes a product variable along a category. Variations cannot carry
// category assignments, so a product with a parent is rejected.
func (s *attributeService) AddCategoryAssignment(ctx context.Context, stockID string, categoryID uint) error {
	stockID = strings.TrimSpace(stockID)
	if stockID == "" {
		return variation.Invalidf("Stock ID is required")
	}
	if _, err := s.attrRepo.FindCategoryByID(ctx, categoryID); err != nil {
		if notFound(err) {
			return fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}

	parent, err := s.parentOf(ctx, stockID)
	if err != nil {
		return err
	}
	if parent != "" {
		return variation.Invalidf("Product '%s' is a variation of '%s'; change its type before assigning categories", stockID, parent)
	}

	if err := s.assignRepo.AddCategoryAssignment(ctx, stockID, categoryID); err != nil {
		return fmt.Errorf("failed to add category assignment: %w", err)
	}
	return nil
}

func (s *attributeService) parentOf(ctx context.Context, stockID string) (string, error) {
	item, err := s.stockRepo.FindByID(ctx, stockID)
	if err != nil && !notFound(err) {
		return "", fmt.Errorf("failed to load product: %w", err)
	}
	if item != nil && item.ParentStockID != nil && *item.ParentStockID != "" {
		return *item.ParentStockID, nil
	}
	parent, err := s.assignRepo.GetProductParent(ctx, stockID)
	if err != nil {
		return "", fmt.Errorf("failed to load parent relationship: %w", err)
	}
	return parent, nil
}

func (s *attributeService) RemoveCategoryAssignment(ctx context.Context, stockID string, categoryID uint) error {
	if err := s.assignRepo.RemoveCategoryAssignment(ctx, stockID, categoryID); err != nil {
		return fmt.Errorf("failed to remove category assignment: %w", err)
	}
	return nil
}

func (s *attributeService) ListAssignments(ctx context.Context, stockID string) ([]model.AssignmentDetail, error) {
	rows, err := s.assignRepo.ListAssignments(ctx, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return rows, nil
}

// AddAssignment assigns a value to a product. Assigning the same value twice returns the existing row.
func (s *attributeService) AddAssignment(ctx context.Context, stockID string, req AddAssignmentRequest) (*model.AttributeAssignment, error) {
	stockID = strings.TrimSpace(stockID)
	if stockID == "" {
		return nil, variation.Invalidf("Stock ID is required")
	}

	value, err := s.attrRepo.FindValueByID(ctx, req.ValueID)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("value %d: %w", req.ValueID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load value: %w", err)
	}

	existing, err := s.assignRepo.FindAssignment(ctx, stockID, value.CategoryID, value.ID)
	if err == nil {
		return existing, nil
	}
	if !notFound(err) {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}

	parent, err := s.parentOf(ctx, stockID)
	if err != nil {
		return nil, err
	}

	assignment := &model.AttributeAssignment{
		StockID:    stockID,
		CategoryID: value.CategoryID,
		ValueID:    value.ID,
		SortOrder:  value.SortOrder,
	}
	if req.SortOrder != nil {
		assignment.SortOrder = *req.SortOrder
	}
	if parent != "" {
		assignment.ParentStockID = &parent
	}
	if err := s.assignRepo.AddAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to add assignment: %w", err)
	}
	return assignment, nil
}

func (s *attributeService) DeleteAssignment(ctx context.Context, id uint) error {
	if err := s.assignRepo.DeleteAssignment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}
