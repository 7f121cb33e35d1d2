package variation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RuleType enumerates the supported price adjustments.
type RuleType string

const (
	RuleFixed      RuleType = "fixed"
	RulePercentage RuleType = "percentage"
	RuleCombined   RuleType = "combined"
)

var hundred = decimal.NewFromInt(100)

// ParseRuleType accepts fixed, percentage or combined (case-insensitive).
func ParseRuleType(s string) (RuleType, error) {
	switch t := RuleType(strings.ToLower(strings.TrimSpace(s))); t {
	case RuleFixed, RulePercentage, RuleCombined:
		return t, nil
	default:
		return "", &InputError{Kind: ErrUnknownRuleType, Msg: fmt.Sprintf("Unknown pricing rule type %q", s)}
	}
}

// Rule is a stateless price adjustment.
//
// fixed:      price + Amount
// percentage: price + price*Amount/100
// combined:   price + FixedAmount + price*Percentage/100
type Rule struct {
	Type        RuleType        `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	FixedAmount decimal.Decimal `json:"fixed_amount"`
	Percentage  decimal.Decimal `json:"percentage"`
}

// RuleSet maps category code -> value label -> rule.
type RuleSet map[string]map[string]Rule

// Add registers a rule for the (categoryCode, value) pair, replacing any previous one.
func (rs RuleSet) Add(categoryCode, value string, rule Rule) {
	byValue, ok := rs[categoryCode]
	if !ok {
		byValue = make(map[string]Rule)
		rs[categoryCode] = byValue
	}
	byValue[value] = rule
}

func (rs RuleSet) lookup(categoryCode, value string) (Rule, bool) {
	byValue, ok := rs[categoryCode]
	if !ok {
		return Rule{}, false
	}
	rule, ok := byValue[value]
	return rule, ok
}

// AppliedRule records a rule that contributed to a calculated price.
type AppliedRule struct {
	Category string `json:"category"`
	Value    string `json:"value"`
	Rule     Rule   `json:"rule"`
}

// PricedVariation is a generated variation with its calculated price.
type PricedVariation struct {
	GeneratedVariation
	CalculatedPrice decimal.Decimal `json:"calculated_price"`
	AppliedRules    []AppliedRule   `json:"applied_rules"`
}

// ApplyRule applies one rule to the base price. Negative results are returned as-is.
func ApplyRule(base decimal.Decimal, rule Rule) (decimal.Decimal, error) {
	switch rule.Type {
	case RuleFixed:
		return base.Add(rule.Amount), nil
	case RulePercentage:
		return base.Add(base.Mul(rule.Amount).Div(hundred)), nil
	case RuleCombined:
		return base.Add(rule.FixedAmount).Add(base.Mul(rule.Percentage).Div(hundred)), nil
	default:
		return decimal.Zero, &InputError{Kind: ErrUnknownRuleType, Msg: fmt.Sprintf("Unknown pricing rule type %q", rule.Type)}
	}
}

// ApplyRules folds ApplyRule over the rules in order; each result is the next rule's base.
func ApplyRules(base decimal.Decimal, rules []Rule) (decimal.Decimal, error) {
	price := base
	for i, rule := range rules {
		next, err := ApplyRule(price, rule)
		if err != nil {
			return decimal.Zero, fmt.Errorf("rule %d: %w", i, err)
		}
		price = next
	}
	return price, nil
}

// ApplyRulesToVariations prices every variation starting from base, folding in the rule for
// each entry of its combination in the combination's own order.
func ApplyRulesToVariations(base decimal.Decimal, variations []GeneratedVariation, rules RuleSet) ([]PricedVariation, error) {
	out := make([]PricedVariation, 0, len(variations))
	for _, v := range variations {
		price := base
		applied := make([]AppliedRule, 0)

		for _, e := range v.Combination {
			rule, ok := rules.lookup(e.CategoryCode, e.ValueLabel)
			if !ok {
				continue
			}
			next, err := ApplyRule(price, rule)
			if err != nil {
				return nil, fmt.Errorf("variation %s: %w", v.StockID, err)
			}
			price = next
			applied = append(applied, AppliedRule{
				Category: e.CategoryCode,
				Value:    e.ValueLabel,
				Rule:     rule,
			})
		}

		out = append(out, PricedVariation{
			GeneratedVariation: v,
			CalculatedPrice:    price,
			AppliedRules:       applied,
		})
	}
	return out, nil
}
