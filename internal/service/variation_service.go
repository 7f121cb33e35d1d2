package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"productattrs/internal/model"
	"productattrs/internal/repository"
	"productattrs/internal/variation"
	ws "productattrs/internal/websocket"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VariationError is a per-combination failure collected during materialization.
type VariationError struct {
	StockID string `json:"stock_id"`
	Message string `json:"message"`
}

// CreateVariationsResult reports what a materialization run did.
type CreateVariationsResult struct {
	ParentStockID string           `json:"parent_stock_id"`
	Created       []string         `json:"created"`
	Skipped       []string         `json:"skipped"`
	Errors        []VariationError `json:"errors"`
}

// Message renders the status line shown to the user.
func (r *CreateVariationsResult) Message() string {
	msg := fmt.Sprintf("Created %d variations", len(r.Created))
	if len(r.Errors) > 0 {
		parts := make([]string, len(r.Errors))
		for i, e := range r.Errors {
			parts[i] = e.Message
		}
		msg += ". Errors: " + strings.Join(parts, ", ")
	}
	return msg
}

// CreateChildResult reports a single explicit child creation.
type CreateChildResult struct {
	ChildStockID      string `json:"child_stock_id"`
	ParentStockID     string `json:"parent_stock_id"`
	AssignmentsCopied int64  `json:"assignments_copied"`
}

func (r *CreateChildResult) Message() string {
	return fmt.Sprintf("Child product '%s' created successfully from parent '%s'", r.ChildStockID, r.ParentStockID)
}

// VariationSummary is a persisted child of a parent product.
type VariationSummary struct {
	StockID       string `json:"stock_id"`
	Description   string `json:"description"`
	Inactive      bool   `json:"inactive"`
	ParentStockID string `json:"parent_stock_id"`
}

type VariationService interface {
	GenerateVariations(ctx context.Context, stockID string) ([]variation.GeneratedVariation, error)
	CreateVariations(ctx context.Context, userID, stockID string, copyPricing bool) (*CreateVariationsResult, error)
	CreateChild(ctx context.Context, userID, stockID string) (*CreateChildResult, error)
	ListVariations(ctx context.Context, parentStockID string) ([]VariationSummary, error)
}

type variationService struct {
	attrRepo    repository.AttributeRepository
	assignRepo  repository.AssignmentRepository
	stockRepo   repository.StockRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	synth       variation.Synthesizer
	childSuffix string
	hub         *ws.Hub
	logger      zerolog.Logger
	now         func() time.Time
}

func NewVariationService(
	attrRepo repository.AttributeRepository,
	assignRepo repository.AssignmentRepository,
	stockRepo repository.StockRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	synth variation.Synthesizer,
	childSuffix string,
	hub *ws.Hub,
	logger zerolog.Logger,
) VariationService {
	if childSuffix == "" {
		childSuffix = "VAR"
	}
	return &variationService{
		attrRepo:    attrRepo,
		assignRepo:  assignRepo,
		stockRepo:   stockRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		synth:       synth,
		childSuffix: childSuffix,
		hub:         hub,
		logger:      logger.With().Str("component", "variations").Logger(),
		now:         time.Now,
	}
}

// candidateValues resolves the categories a product varies along and the values of each.
//
// A category contributes the values explicitly assigned to the product when there are any,
// otherwise all of its active values. Categories come from both category assignments and
// value-level assignments.
func (s *variationService) candidateValues(ctx context.Context, stockID string) ([]variation.CategoryValues, error) {
	assigned, err := s.assignRepo.ListCategoryAssignments(ctx, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category assignments: %w", err)
	}
	details, err := s.assignRepo.ListAssignments(ctx, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	var order []uint
	groups := make(map[uint]*variation.CategoryValues)
	seenValue := make(map[uint]bool)

	for _, c := range assigned {
		if !c.Active {
			continue
		}
		groups[c.ID] = &variation.CategoryValues{Category: toCategory(c)}
		order = append(order, c.ID)
	}
	for _, d := range details {
		g, ok := groups[d.CategoryID]
		if !ok {
			g = &variation.CategoryValues{Category: variation.Category{
				ID:        d.CategoryID,
				Code:      d.CategoryCode,
				Label:     d.CategoryLabel,
				SortOrder: d.CategorySortOrder,
			}}
			groups[d.CategoryID] = g
			order = append(order, d.CategoryID)
		}
		if seenValue[d.ValueID] {
			continue
		}
		seenValue[d.ValueID] = true
		g.Values = append(g.Values, variation.Value{ID: d.ValueID, Label: d.Value, Slug: d.ValueSlug})
	}

	if len(order) == 0 {
		return nil, variation.ErrNoCategoriesAssigned
	}

	out := make([]variation.CategoryValues, 0, len(order))
	for _, id := range order {
		g := groups[id]
		if len(g.Values) == 0 {
			values, err := s.attrRepo.ListActiveValues(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to list values for category %d: %w", id, err)
			}
			for _, v := range values {
				g.Values = append(g.Values, variation.Value{ID: v.ID, Label: v.Value, Slug: v.Slug})
			}
		}
		if len(g.Values) == 0 {
			return nil, variation.ErrNoValuesForCategories
		}
		out = append(out, *g)
	}
	return out, nil
}

func toCategory(c model.AttributeCategory) variation.Category {
	return variation.Category{ID: c.ID, Code: c.Code, Label: c.Label, SortOrder: c.SortOrder}
}

func (s *variationService) findParent(ctx context.Context, stockID string) (*model.StockItem, error) {
	parent, err := s.stockRepo.FindByID(ctx, stockID)
	if err != nil {
		if notFound(err) {
			return nil, &variation.InputError{Kind: variation.ErrParentNotFound, Msg: fmt.Sprintf("Parent product '%s' not found", stockID)}
		}
		return nil, fmt.Errorf("failed to load parent product: %w", err)
	}
	return parent, nil
}

func (s *variationService) generate(ctx context.Context, stockID string) (*model.StockItem, []variation.GeneratedVariation, error) {
	stockID = strings.TrimSpace(stockID)
	if stockID == "" {
		return nil, nil, variation.Invalidf("Invalid stock ID")
	}

	candidates, err := s.candidateValues(ctx, stockID)
	if err != nil {
		return nil, nil, err
	}

	parent, err := s.findParent(ctx, stockID)
	if err != nil {
		return nil, nil, err
	}

	variations, err := s.synth.Variations(parent.StockID, parent.Description, candidates)
	if err != nil {
		return nil, nil, err
	}
	return parent, variations, nil
}

// GenerateVariations names every combination of the product's assigned values. It performs no writes.
func (s *variationService) GenerateVariations(ctx context.Context, stockID string) ([]variation.GeneratedVariation, error) {
	_, variations, err := s.generate(ctx, stockID)
	return variations, err
}

// CreateVariations materializes the generated variations that do not exist yet.
// Each child is written in its own transaction; a failing child is recorded and the run continues.
func (s *variationService) CreateVariations(ctx context.Context, userID, stockID string, copyPricing bool) (*CreateVariationsResult, error) {
	parent, variations, err := s.generate(ctx, stockID)
	if err != nil {
		return nil, err
	}

	result := &CreateVariationsResult{
		ParentStockID: parent.StockID,
		Created:       []string{},
		Skipped:       []string{},
		Errors:        []VariationError{},
	}

	for _, v := range variations {
		exists, err := s.stockRepo.Exists(ctx, v.StockID)
		if err != nil {
			return result, fmt.Errorf("failed to check variation %s: %w", v.StockID, err)
		}
		if exists {
			result.Skipped = append(result.Skipped, v.StockID)
			continue
		}

		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			return s.createVariation(txCtx, userID, parent, v, copyPricing)
		})
		switch {
		case err == nil:
			result.Created = append(result.Created, v.StockID)
		case errors.Is(err, errVariationExists):
			// Created concurrently by another request.
			result.Skipped = append(result.Skipped, v.StockID)
		default:
			s.logger.Warn().Err(err).Str("stock_id", v.StockID).Msg("variation creation failed")
			result.Errors = append(result.Errors, VariationError{StockID: v.StockID, Message: err.Error()})
		}
	}

	s.logger.Info().
		Str("stock_id", parent.StockID).
		Int("created", len(result.Created)).
		Int("skipped", len(result.Skipped)).
		Int("errors", len(result.Errors)).
		Bool("copy_pricing", copyPricing).
		Msg("variations materialized")

	if len(result.Created) > 0 {
		s.hub.Publish(ws.EventVariationsCreated, map[string]interface{}{
			"parent_stock_id": parent.StockID,
			"created":         result.Created,
		})
	}

	return result, nil
}

func (s *variationService) createVariation(ctx context.Context, userID string, parent *model.StockItem, v variation.GeneratedVariation, copyPricing bool) error {
	parentID := parent.StockID

	child := parent.CloneAs(v.StockID)
	child.Description = v.Description
	child.ParentStockID = &parentID
	if err := s.stockRepo.Create(ctx, &child); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %s", errVariationExists, v.StockID)
		}
		return fmt.Errorf("failed to create variation %s: %w", v.StockID, err)
	}

	assignments := make([]model.AttributeAssignment, len(v.Combination))
	for i, e := range v.Combination {
		assignments[i] = model.AttributeAssignment{
			StockID:       v.StockID,
			CategoryID:    e.CategoryID,
			ValueID:       e.ValueID,
			SortOrder:     i,
			ParentStockID: &parentID,
		}
	}
	if err := s.assignRepo.AddAssignments(ctx, assignments); err != nil {
		return fmt.Errorf("failed to assign attributes to %s: %w", v.StockID, err)
	}

	copied := 0
	if copyPricing {
		n, err := s.stockRepo.CopyPrices(ctx, parentID, v.StockID)
		if err != nil {
			return fmt.Errorf("failed to copy pricing to %s: %w", v.StockID, err)
		}
		copied = n
	}

	return writeAuditLog(ctx, s.auditRepo, userID, model.ActionCreateVariations, v.StockID, v.Description, map[string]interface{}{
		"parent_stock_id": parentID,
		"combination":     v.Combination,
		"prices_copied":   copied,
	})
}

// CreateChild copies the parent into one explicit child named STOCK-<suffix>-<unix time>.
func (s *variationService) CreateChild(ctx context.Context, userID, stockID string) (*CreateChildResult, error) {
	stockID = strings.TrimSpace(stockID)
	if stockID == "" {
		return nil, variation.Invalidf("Stock ID is required")
	}

	parent, err := s.findParent(ctx, stockID)
	if err != nil {
		return nil, err
	}

	childID := fmt.Sprintf("%s-%s-%d", stockID, s.childSuffix, s.now().Unix())
	exists, err := s.stockRepo.Exists(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to check child id: %w", err)
	}
	if exists {
		childID += "-" + strings.ToUpper(uuid.NewString()[:8])
	}

	result := &CreateChildResult{ChildStockID: childID, ParentStockID: stockID}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		child := parent.CloneAs(childID)
		child.Description = parent.Description + " (Variation)"
		child.LongDescription = strings.TrimSpace(parent.LongDescription + " - Variation of " + stockID)
		child.MBFlag = model.MBFlagService
		child.ParentStockID = &stockID
		if err := s.stockRepo.Create(txCtx, &child); err != nil {
			return fmt.Errorf("failed to create child product: %w", err)
		}

		n, err := s.assignRepo.CopyParentValueAssignments(txCtx, childID, stockID)
		if err != nil {
			return fmt.Errorf("failed to copy parent value assignments: %w", err)
		}
		result.AssignmentsCopied = n

		if err := s.assignRepo.SetParentRelationship(txCtx, childID, stockID); err != nil {
			return fmt.Errorf("failed to set parent relationship: %w", err)
		}

		return writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCreateChild, childID, child.Description, map[string]interface{}{
			"parent_stock_id":    stockID,
			"assignments_copied": n,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("stock_id", stockID).Str("child_stock_id", childID).Msg("child product created")
	s.hub.Publish(ws.EventChildCreated, map[string]interface{}{
		"parent_stock_id": stockID,
		"child_stock_id":  childID,
	})

	return result, nil
}

// ListVariations returns the persisted children of a parent.
func (s *variationService) ListVariations(ctx context.Context, parentStockID string) ([]VariationSummary, error) {
	parentStockID = strings.TrimSpace(parentStockID)
	if parentStockID == "" {
		return nil, variation.Invalidf("Stock ID is required")
	}

	childIDs, err := s.assignRepo.ChildStockIDs(ctx, parentStockID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child assignments: %w", err)
	}
	items, err := s.stockRepo.ListVariations(ctx, parentStockID, childIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list variations: %w", err)
	}

	out := make([]VariationSummary, 0, len(items))
	for _, it := range items {
		out = append(out, VariationSummary{
			StockID:       it.StockID,
			Description:   it.Description,
			Inactive:      it.Inactive,
			ParentStockID: parentStockID,
		})
	}
	return out, nil
}
