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

// SuggestedValue is an existing value (ID set) or one that would have to be created (ID zero).
type SuggestedValue struct {
	ID         uint   `json:"id,omitempty"`
	Value      string `json:"value"`
	Slug       string `json:"slug"`
	CategoryID uint   `json:"category_id,omitempty"`
}

// PositionSuggestion maps one attribute position of a stock id pattern onto a category.
type PositionSuggestion struct {
	Position          int                      `json:"position"`
	Values            []string                 `json:"values"`
	SuggestedCategory *model.AttributeCategory `json:"suggested_category"`
	SuggestedValues   []SuggestedValue         `json:"suggested_values"`
}

type Suggestion struct {
	Pattern string `json:"pattern"`
	variation.PatternAnalysis
	SuggestedCategories []PositionSuggestion `json:"suggested_categories"`
}

type ApplySuggestionRequest struct {
	Pattern             string `json:"pattern" binding:"required"`
	CreateMissingValues bool   `json:"create_missing_values"`
	LinkVariations      bool   `json:"link_variations"`
}

type ApplySuggestionResult struct {
	Pattern          string `json:"pattern"`
	BaseStockID      string `json:"base_stock_id"`
	AssignmentsAdded int    `json:"assignments_added"`
	ValuesCreated    int    `json:"values_created"`
	VariationsLinked int    `json:"variations_linked"`
}

type RetroactiveService interface {
	Scan(ctx context.Context) ([]Suggestion, error)
	ApplySuggestion(ctx context.Context, userID string, req ApplySuggestionRequest) (*ApplySuggestionResult, error)
}

type retroactiveService struct {
	attrRepo   repository.AttributeRepository
	assignRepo repository.AssignmentRepository
	stockRepo  repository.StockRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	hub        *ws.Hub
	logger     zerolog.Logger
}

func NewRetroactiveService(
	attrRepo repository.AttributeRepository,
	assignRepo repository.AssignmentRepository,
	stockRepo repository.StockRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger zerolog.Logger,
) RetroactiveService {
	return &retroactiveService{
		attrRepo:   attrRepo,
		assignRepo: assignRepo,
		stockRepo:  stockRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		hub:        hub,
		logger:     logger.With().Str("component", "retroactive").Logger(),
	}
}

type categoryWithValues struct {
	category model.AttributeCategory
	values   []model.AttributeValue
}

func (s *retroactiveService) loadCategories(ctx context.Context) ([]categoryWithValues, error) {
	categories, err := s.attrRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	out := make([]categoryWithValues, 0, len(categories))
	for _, c := range categories {
		values, err := s.attrRepo.ListValues(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list values for category %d: %w", c.ID, err)
		}
		c.Values = nil
		out = append(out, categoryWithValues{category: c, values: values})
	}
	return out, nil
}

// Scan groups existing stock ids by shared prefix and proposes the categories and values
// that would describe them.
func (s *retroactiveService) Scan(ctx context.Context) ([]Suggestion, error) {
	stockIDs, err := s.stockRepo.ListStockIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock ids: %w", err)
	}
	categories, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0)
	for _, p := range variation.IdentifyPatterns(stockIDs) {
		analysis := variation.AnalyzePattern(p)
		if analysis == nil {
			continue
		}
		positions := make([]PositionSuggestion, len(analysis.AttributeGroups))
		for i, group := range analysis.AttributeGroups {
			positions[i] = suggestPosition(i, group, categories)
		}
		suggestions = append(suggestions, Suggestion{
			Pattern:             p.Key,
			PatternAnalysis:     *analysis,
			SuggestedCategories: positions,
		})
	}

	s.logger.Debug().Int("stock_ids", len(stockIDs)).Int("suggestions", len(suggestions)).Msg("retroactive scan finished")
	return suggestions, nil
}

// suggestPosition picks the first category (in sort order) owning a value whose label or slug
// matches one of the parts, ignoring case.
func suggestPosition(position int, parts []string, categories []categoryWithValues) PositionSuggestion {
	ps := PositionSuggestion{Position: position, Values: parts}

	var match *categoryWithValues
	for i := range categories {
		for _, part := range parts {
			if findValue(categories[i].values, part) != nil {
				match = &categories[i]
				break
			}
		}
		if match != nil {
			break
		}
	}

	ps.SuggestedValues = make([]SuggestedValue, 0, len(parts))
	if match == nil {
		for _, part := range parts {
			ps.SuggestedValues = append(ps.SuggestedValues, SuggestedValue{Value: part, Slug: variation.Slugify(part)})
		}
		return ps
	}

	category := match.category
	ps.SuggestedCategory = &category
	for _, part := range parts {
		if v := findValue(match.values, part); v != nil {
			ps.SuggestedValues = append(ps.SuggestedValues, SuggestedValue{ID: v.ID, Value: v.Value, Slug: v.Slug, CategoryID: v.CategoryID})
			continue
		}
		ps.SuggestedValues = append(ps.SuggestedValues, SuggestedValue{Value: part, Slug: variation.Slugify(part), CategoryID: category.ID})
	}
	return ps
}

func findValue(values []model.AttributeValue, part string) *model.AttributeValue {
	for i := range values {
		if strings.EqualFold(values[i].Value, part) || strings.EqualFold(values[i].Slug, part) {
			return &values[i]
		}
	}
	return nil
}

// ApplySuggestion re-scans and applies the named pattern: matched values are assigned to the base
// stock id at their position. Missing values are created only when requested, and existing
// variations are linked to the base only when requested and the base product exists.
func (s *retroactiveService) ApplySuggestion(ctx context.Context, userID string, req ApplySuggestionRequest) (*ApplySuggestionResult, error) {
	pattern := strings.TrimSpace(req.Pattern)
	if pattern == "" {
		return nil, variation.Invalidf("Pattern is required")
	}

	suggestions, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	var suggestion *Suggestion
	for i := range suggestions {
		if suggestions[i].Pattern == pattern {
			suggestion = &suggestions[i]
			break
		}
	}
	if suggestion == nil {
		return nil, fmt.Errorf("pattern %s: %w", pattern, ErrNotFound)
	}

	base := suggestion.BaseStockID
	result := &ApplySuggestionResult{Pattern: pattern, BaseStockID: base}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, pos := range suggestion.SuggestedCategories {
			if pos.SuggestedCategory == nil {
				continue
			}
			for _, sv := range pos.SuggestedValues {
				valueID := sv.ID
				if valueID == 0 {
					if !req.CreateMissingValues || sv.Slug == "" {
						continue
					}
					value := &model.AttributeValue{CategoryID: pos.SuggestedCategory.ID, Value: sv.Value, Slug: sv.Slug, Active: true}
					if err := s.attrRepo.SaveValue(txCtx, value); err != nil {
						return fmt.Errorf("failed to create value %s: %w", sv.Value, err)
					}
					result.ValuesCreated++
					valueID = value.ID
				}

				_, err := s.assignRepo.FindAssignment(txCtx, base, pos.SuggestedCategory.ID, valueID)
				if err == nil {
					continue
				}
				if !notFound(err) {
					return fmt.Errorf("failed to check assignment: %w", err)
				}
				if err := s.assignRepo.AddAssignment(txCtx, &model.AttributeAssignment{
					StockID:    base,
					CategoryID: pos.SuggestedCategory.ID,
					ValueID:    valueID,
					SortOrder:  pos.Position,
				}); err != nil {
					return fmt.Errorf("failed to add assignment: %w", err)
				}
				result.AssignmentsAdded++
			}
		}

		if req.LinkVariations {
			linked, err := s.linkVariations(txCtx, base, suggestion.ExistingVariations)
			if err != nil {
				return err
			}
			result.VariationsLinked = linked
		}

		return writeAuditLog(txCtx, s.auditRepo, userID, model.ActionApplyRetroactive, base, pattern, result)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("pattern", pattern).
		Int("assignments_added", result.AssignmentsAdded).
		Int("values_created", result.ValuesCreated).
		Int("variations_linked", result.VariationsLinked).
		Msg("retroactive suggestion applied")
	s.hub.Publish(ws.EventAttributesChanged, map[string]interface{}{"stock_id": base})
	return result, nil
}

func (s *retroactiveService) linkVariations(ctx context.Context, base string, stockIDs []string) (int, error) {
	exists, err := s.stockRepo.Exists(ctx, base)
	if err != nil {
		return 0, fmt.Errorf("failed to check base product: %w", err)
	}
	if !exists {
		return 0, nil
	}

	linked := 0
	for _, id := range stockIDs {
		categoryIDs, err := s.assignRepo.CategoryIDs(ctx, id)
		if err != nil {
			return linked, fmt.Errorf("failed to list category assignments: %w", err)
		}
		// Variable products stay variable.
		if len(categoryIDs) > 0 {
			continue
		}
		parent := base
		if err := s.stockRepo.SetParent(ctx, id, &parent); err != nil {
			return linked, fmt.Errorf("failed to link %s: %w", id, err)
		}
		if err := s.assignRepo.SetParentRelationship(ctx, id, base); err != nil {
			return linked, fmt.Errorf("failed to link %s: %w", id, err)
		}
		linked++
	}
	return linked, nil
}
