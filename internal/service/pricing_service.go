package service

import (
	"context"
	"fmt"

	"productattrs/internal/model"
	"productattrs/internal/repository"
	"productattrs/internal/variation"
	ws "productattrs/internal/websocket"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type UpsertPricingRuleRequest struct {
	ID          uint            `json:"id"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	ValueID     uint            `json:"value_id" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	FixedAmount decimal.Decimal `json:"fixed_amount"`
	Percentage  decimal.Decimal `json:"percentage"`
	Position    int             `json:"position"`
	Active      *bool           `json:"active"`
}

type ApplyRulesRequest struct {
	BasePrice decimal.Decimal  `json:"base_price"`
	Rules     []variation.Rule `json:"rules"`
}

type ApplyRulesResult struct {
	BasePrice       decimal.Decimal `json:"base_price"`
	CalculatedPrice decimal.Decimal `json:"calculated_price"`
}

type PricingService interface {
	ListRules(ctx context.Context) ([]model.PricingRule, error)
	UpsertRule(ctx context.Context, userID string, req UpsertPricingRuleRequest) (*model.PricingRule, error)
	DeleteRule(ctx context.Context, userID string, id uint) error
	RuleSet(ctx context.Context) (variation.RuleSet, error)
	Apply(req ApplyRulesRequest) (*ApplyRulesResult, error)
	PriceVariations(ctx context.Context, stockID string, basePrice decimal.Decimal) ([]variation.PricedVariation, error)
}

type pricingService struct {
	ruleRepo   repository.PricingRuleRepository
	attrRepo   repository.AttributeRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	variations VariationService
	hub        *ws.Hub
	logger     zerolog.Logger
}

func NewPricingService(
	ruleRepo repository.PricingRuleRepository,
	attrRepo repository.AttributeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	variations VariationService,
	hub *ws.Hub,
	logger zerolog.Logger,
) PricingService {
	return &pricingService{
		ruleRepo:   ruleRepo,
		attrRepo:   attrRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		variations: variations,
		hub:        hub,
		logger:     logger.With().Str("component", "pricing").Logger(),
	}
}

func (s *pricingService) ListRules(ctx context.Context) ([]model.PricingRule, error) {
	rules, err := s.ruleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}
	return rules, nil
}

func (s *pricingService) UpsertRule(ctx context.Context, userID string, req UpsertPricingRuleRequest) (*model.PricingRule, error) {
	ruleType, err := variation.ParseRuleType(req.Type)
	if err != nil {
		return nil, err
	}

	var rule *model.PricingRule
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		value, err := s.attrRepo.FindValueByID(txCtx, req.ValueID)
		if err != nil {
			if notFound(err) {
				return fmt.Errorf("value %d: %w", req.ValueID, ErrNotFound)
			}
			return fmt.Errorf("failed to load value: %w", err)
		}
		if value.CategoryID != req.CategoryID {
			return variation.Invalidf("Value %d does not belong to category %d", req.ValueID, req.CategoryID)
		}

		if req.ID != 0 {
			rule, err = s.ruleRepo.FindByID(txCtx, req.ID)
			if err != nil {
				if notFound(err) {
					return fmt.Errorf("pricing rule %d: %w", req.ID, ErrNotFound)
				}
				return fmt.Errorf("failed to load pricing rule: %w", err)
			}
		} else {
			rule = &model.PricingRule{Active: true}
		}

		rule.CategoryID = req.CategoryID
		rule.ValueID = req.ValueID
		rule.Type = string(ruleType)
		rule.Amount = req.Amount
		rule.FixedAmount = req.FixedAmount
		rule.Percentage = req.Percentage
		rule.Position = req.Position
		if req.Active != nil {
			rule.Active = *req.Active
		}
		rule.Category, rule.Value = nil, nil

		if err := s.ruleRepo.Save(txCtx, rule); err != nil {
			return fmt.Errorf("failed to save pricing rule: %w", err)
		}
		return writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpsertPricingRule, fmt.Sprint(rule.ID), value.Value, req)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventAttributesChanged, map[string]interface{}{"pricing_rule_id": rule.ID})
	return rule, nil
}

func (s *pricingService) DeleteRule(ctx context.Context, userID string, id uint) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.ruleRepo.FindByID(txCtx, id); err != nil {
			if notFound(err) {
				return fmt.Errorf("pricing rule %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load pricing rule: %w", err)
		}
		if err := s.ruleRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete pricing rule: %w", err)
		}
		return writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeletePricingRule, fmt.Sprint(id), "", nil)
	})
}

// RuleSet builds the category code -> value label -> rule mapping from the active rules.
// A later rule (by position) for the same pair replaces an earlier one.
func (s *pricingService) RuleSet(ctx context.Context) (variation.RuleSet, error) {
	rules, err := s.ruleRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}

	set := make(variation.RuleSet)
	for _, r := range rules {
		if r.Category == nil || r.Value == nil {
			continue
		}
		set.Add(r.Category.Code, r.Value.Value, toRule(r))
	}
	return set, nil
}

func toRule(r model.PricingRule) variation.Rule {
	return variation.Rule{
		Type:        variation.RuleType(r.Type),
		Amount:      r.Amount,
		FixedAmount: r.FixedAmount,
		Percentage:  r.Percentage,
	}
}

func (s *pricingService) Apply(req ApplyRulesRequest) (*ApplyRulesResult, error) {
	price, err := variation.ApplyRules(req.BasePrice, req.Rules)
	if err != nil {
		return nil, err
	}
	return &ApplyRulesResult{BasePrice: req.BasePrice, CalculatedPrice: price}, nil
}

// PriceVariations generates the product's variations and prices each from basePrice using the stored rules.
func (s *pricingService) PriceVariations(ctx context.Context, stockID string, basePrice decimal.Decimal) ([]variation.PricedVariation, error) {
	generated, err := s.variations.GenerateVariations(ctx, stockID)
	if err != nil {
		return nil, err
	}
	rules, err := s.RuleSet(ctx)
	if err != nil {
		return nil, err
	}

	priced, err := variation.ApplyRulesToVariations(basePrice, generated, rules)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("stock_id", stockID).Int("variations", len(priced)).Msg("variations priced")
	return priced, nil
}
