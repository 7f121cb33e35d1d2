package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"productattrs/internal/model"
	"productattrs/internal/repository"
	"productattrs/internal/variation"
	ws "productattrs/internal/websocket"

	"github.com/rs/zerolog"
)

// ProductTypeChange requests one product's type. ParentStockID is only read for variation.
type ProductTypeChange struct {
	StockID       string `json:"stock_id" binding:"required"`
	Type          string `json:"type"`
	ParentStockID string `json:"parent_stock_id"`
}

type UpdateProductTypesRequest struct {
	Changes []ProductTypeChange `json:"changes" binding:"required,dive"`
}

// UpdateProductTypesResult carries the number of products actually changed.
type UpdateProductTypesResult struct {
	Updated  int      `json:"updated"`
	StockIDs []string `json:"stock_ids"`
}

func (r *UpdateProductTypesResult) Message() string {
	return fmt.Sprintf("Updated product types for %d products", r.Updated)
}

// ProductSummary is a stock item with its derived type.
type ProductSummary struct {
	StockID     string                `json:"stock_id"`
	Description string                `json:"description"`
	Inactive    bool                  `json:"inactive"`
	Type        variation.ProductType `json:"product_type"`
}

type ProductTypeService interface {
	GetProductType(ctx context.Context, stockID string) (variation.ProductType, error)
	IsVariation(ctx context.Context, stockID string) (bool, error)
	UpdateProductTypes(ctx context.Context, userID string, req UpdateProductTypesRequest) (*UpdateProductTypesResult, error)
	ListProducts(ctx context.Context, page, limit int, search string) ([]ProductSummary, int64, error)
	CleanupItem(ctx context.Context, userID, stockID string) error
}

type productTypeService struct {
	assignRepo repository.AssignmentRepository
	stockRepo  repository.StockRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	hub        *ws.Hub
	logger     zerolog.Logger
}

func NewProductTypeService(
	assignRepo repository.AssignmentRepository,
	stockRepo repository.StockRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger zerolog.Logger,
) ProductTypeService {
	return &productTypeService{
		assignRepo: assignRepo,
		stockRepo:  stockRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		hub:        hub,
		logger:     logger.With().Str("component", "product_types").Logger(),
	}
}

// parentOf reads the parent from the stock row, falling back to the assignment rows.
func (s *productTypeService) parentOf(ctx context.Context, stockID string) (string, error) {
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

func (s *productTypeService) GetProductType(ctx context.Context, stockID string) (variation.ProductType, error) {
	stockID = strings.TrimSpace(stockID)
	if stockID == "" {
		return variation.ProductType{}, variation.Invalidf("Stock ID is required")
	}

	categoryIDs, err := s.assignRepo.CategoryIDs(ctx, stockID)
	if err != nil {
		return variation.ProductType{}, fmt.Errorf("failed to list category assignments: %w", err)
	}
	parent, err := s.parentOf(ctx, stockID)
	if err != nil {
		return variation.ProductType{}, err
	}
	return variation.DeriveType(stockID, categoryIDs, parent), nil
}

// IsVariation reports whether the product has a parent.
func (s *productTypeService) IsVariation(ctx context.Context, stockID string) (bool, error) {
	parent, err := s.parentOf(ctx, strings.TrimSpace(stockID))
	if err != nil {
		return false, err
	}
	return parent != "", nil
}

// UpdateProductTypes applies each requested transition. Products whose type (and parent, for
// variations) would not change are skipped. The first invalid request aborts the batch; changes
// already applied stay applied.
func (s *productTypeService) UpdateProductTypes(ctx context.Context, userID string, req UpdateProductTypesRequest) (*UpdateProductTypesResult, error) {
	result := &UpdateProductTypesResult{StockIDs: []string{}}

	changes := make([]ProductTypeChange, len(req.Changes))
	copy(changes, req.Changes)
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].StockID < changes[j].StockID })

	for _, change := range changes {
		if strings.TrimSpace(change.Type) == "" {
			continue
		}
		target, err := variation.ParseKind(change.Type)
		if err != nil {
			return result, err
		}

		current, err := s.GetProductType(ctx, change.StockID)
		if err != nil {
			return result, err
		}

		transition, ok, err := variation.PlanTransition(current, target, change.ParentStockID)
		if err != nil {
			return result, err
		}
		if !ok {
			continue
		}
		if err := s.checkTransitionTargets(ctx, current.StockID, transition.SetParent); err != nil {
			return result, err
		}

		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			return s.apply(txCtx, userID, current, transition)
		})
		if err != nil {
			return result, err
		}

		result.Updated++
		result.StockIDs = append(result.StockIDs, current.StockID)
	}

	s.logger.Info().Int("updated", result.Updated).Int("requested", len(req.Changes)).Msg("product types updated")
	if result.Updated > 0 {
		s.hub.Publish(ws.EventProductTypesUpdated, map[string]interface{}{"stock_ids": result.StockIDs})
	}
	return result, nil
}

// checkTransitionTargets requires a stock row for the product and, when one is being set, its parent.
func (s *productTypeService) checkTransitionTargets(ctx context.Context, stockID, parentStockID string) error {
	exists, err := s.stockRepo.Exists(ctx, stockID)
	if err != nil {
		return fmt.Errorf("failed to check product %s: %w", stockID, err)
	}
	if !exists {
		return variation.Invalidf("Product '%s' not found", stockID)
	}
	if parentStockID == "" {
		return nil
	}

	exists, err = s.stockRepo.Exists(ctx, parentStockID)
	if err != nil {
		return fmt.Errorf("failed to check parent product %s: %w", parentStockID, err)
	}
	if !exists {
		return &variation.InputError{Kind: variation.ErrParentNotFound, Msg: fmt.Sprintf("Parent product '%s' not found", parentStockID)}
	}
	return nil
}

func (s *productTypeService) apply(ctx context.Context, userID string, current variation.ProductType, t variation.Transition) error {
	stockID := current.StockID

	if t.ClearCategoryAssignments {
		if err := s.assignRepo.ClearCategoryAssignments(ctx, stockID); err != nil {
			return fmt.Errorf("failed to clear category assignments: %w", err)
		}
	}
	if t.ClearParent {
		if err := s.stockRepo.SetParent(ctx, stockID, nil); err != nil {
			return fmt.Errorf("failed to clear parent: %w", err)
		}
		if err := s.assignRepo.ClearParentRelationship(ctx, stockID); err != nil {
			return fmt.Errorf("failed to clear parent relationship: %w", err)
		}
	}
	if t.SetParent != "" {
		parent := t.SetParent
		if err := s.stockRepo.SetParent(ctx, stockID, &parent); err != nil {
			return fmt.Errorf("failed to set parent: %w", err)
		}
		if err := s.assignRepo.SetParentRelationship(ctx, stockID, parent); err != nil {
			return fmt.Errorf("failed to set parent relationship: %w", err)
		}
	}

	return writeAuditLog(ctx, s.auditRepo, userID, model.ActionUpdateProductType, stockID, string(t.Target), map[string]interface{}{
		"from":            current.Kind,
		"to":              t.Target,
		"parent_stock_id": t.SetParent,
	})
}

func (s *productTypeService) ListProducts(ctx context.Context, page, limit int, search string) ([]ProductSummary, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.stockRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	out := make([]ProductSummary, 0, len(items))
	for _, it := range items {
		categoryIDs, err := s.assignRepo.CategoryIDs(ctx, it.StockID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list category assignments: %w", err)
		}
		parent := ""
		if it.ParentStockID != nil {
			parent = *it.ParentStockID
		}
		if parent == "" {
			if parent, err = s.assignRepo.GetProductParent(ctx, it.StockID); err != nil {
				return nil, 0, fmt.Errorf("failed to load parent relationship: %w", err)
			}
		}
		out = append(out, ProductSummary{
			StockID:     it.StockID,
			Description: it.Description,
			Inactive:    it.Inactive,
			Type:        variation.DeriveType(it.StockID, categoryIDs, parent),
		})
	}
	return out, total, nil
}

// CleanupItem removes everything this service stores about an item the host is deleting and
// detaches its children.
func (s *productTypeService) CleanupItem(ctx context.Context, userID, stockID string) error {
	stockID = strings.TrimSpace(stockID)
	if stockID == "" {
		return variation.Invalidf("Stock ID is required")
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.assignRepo.ClearCategoryAssignments(txCtx, stockID); err != nil {
			return fmt.Errorf("failed to clear category assignments: %w", err)
		}
		if err := s.assignRepo.DeleteAssignmentsForStock(txCtx, stockID); err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}
		if err := s.assignRepo.DetachChildren(txCtx, stockID); err != nil {
			return fmt.Errorf("failed to detach child assignments: %w", err)
		}
		if err := s.stockRepo.DetachChildren(txCtx, stockID); err != nil {
			return fmt.Errorf("failed to detach child products: %w", err)
		}
		return writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCleanupOnDelete, stockID, "", nil)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("stock_id", stockID).Msg("attribute data removed for deleted item")
	return nil
}
