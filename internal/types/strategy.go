package types

import (
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// RuleKind says whether a rule opens or closes a position.
type RuleKind string

const (
	RuleKindEntry RuleKind = "entry"
	RuleKindExit  RuleKind = "exit"
)

// Operator compares the left indicator value against a threshold or another indicator.
type Operator string

const (
	OperatorGreaterThan        Operator = "gt"
	OperatorGreaterThanOrEqual Operator = "gte"
	OperatorLessThan           Operator = "lt"
	OperatorLessThanOrEqual    Operator = "lte"
	// OperatorInside holds when the value is within the bands of a bollinger Compare.
	OperatorInside Operator = "inside"
	// OperatorOutside holds when the value is above the upper or below the lower band.
	OperatorOutside Operator = "outside"
)

// IsBandOperator reports whether the operator compares against bands.
func (o Operator) IsBandOperator() bool {
	return o == OperatorInside || o == OperatorOutside
}

// Logic combines the results of several rules.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// StrategyRule is a single declarative condition.
type StrategyRule struct {
	Kind      RuleKind      `yaml:"kind" json:"kind" validate:"required,oneof=entry exit" jsonschema:"title=Kind,description=Whether the rule opens or closes a position,enum=entry,enum=exit"`
	Indicator IndicatorRef  `yaml:"indicator" json:"indicator" jsonschema:"title=Indicator,description=Left hand side of the comparison"`
	Operator  Operator      `yaml:"operator" json:"operator" validate:"required,oneof=gt gte lt lte inside outside" jsonschema:"title=Operator,enum=gt,enum=gte,enum=lt,enum=lte,enum=inside,enum=outside"`
	Threshold *float64      `yaml:"threshold,omitempty" json:"threshold,omitempty" validate:"omitempty" jsonschema:"title=Threshold,description=Constant right hand side"`
	Compare   *IndicatorRef `yaml:"compare,omitempty" json:"compare,omitempty" validate:"omitempty" jsonschema:"title=Compare,description=Indicator right hand side. Required for inside and outside"`
}

// Strategy is a named set of entry and exit rules for a single instrument.
type Strategy struct {
	Name string `yaml:"name" json:"name" validate:"required" jsonschema:"title=Name,description=Strategy name"`
	// EngineVersion is a semver constraint on the engine that can run this strategy.
	EngineVersion string         `yaml:"engine_version,omitempty" json:"engine_version,omitempty" jsonschema:"title=Engine Version,description=Semver constraint on the backtest engine version,example=>=1.0.0"`
	EntryLogic    Logic          `yaml:"entry_logic,omitempty" json:"entry_logic,omitempty" default:"and" validate:"omitempty,oneof=and or" jsonschema:"title=Entry Logic,enum=and,enum=or,default=and"`
	ExitLogic     Logic          `yaml:"exit_logic,omitempty" json:"exit_logic,omitempty" default:"or" validate:"omitempty,oneof=and or" jsonschema:"title=Exit Logic,enum=and,enum=or,default=or"`
	Rules         []StrategyRule `yaml:"rules" json:"rules" validate:"required,min=1,dive" jsonschema:"title=Rules"`
	// StopLossPct closes a position when the low falls this fraction below the entry price.
	StopLossPct *float64 `yaml:"stop_loss_pct,omitempty" json:"stop_loss_pct,omitempty" validate:"omitempty,gt=0,lt=1" jsonschema:"title=Stop Loss,description=Fraction below entry that triggers a stop exit,minimum=0,maximum=1"`
}

// ParseStrategy decodes a YAML strategy, fills defaults and validates it.
func ParseStrategy(data []byte) (Strategy, error) {
	var strategy Strategy

	if err := yaml.Unmarshal(data, &strategy); err != nil {
		return Strategy{}, errors.Wrap(errors.ErrCodeStrategyParseFailed, "failed to parse strategy", err)
	}

	if err := defaults.Set(&strategy); err != nil {
		return Strategy{}, errors.Wrap(errors.ErrCodeInvalidStrategy, "failed to set strategy defaults", err)
	}

	if err := strategy.Validate(); err != nil {
		return Strategy{}, err
	}

	return strategy, nil
}

// LoadStrategy reads a strategy file from disk.
func LoadStrategy(path string) (Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Strategy{}, errors.Wrapf(errors.ErrCodeStrategyParseFailed, err, "failed to read strategy file %s", path)
	}

	return ParseStrategy(data)
}

// Validate checks the struct tags and the shape of every rule.
// Indicator names and parameters are resolved later against a registry.
func (s *Strategy) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStrategy, "invalid strategy", err)
	}

	if len(s.EntryRules()) == 0 {
		return errors.Newf(errors.ErrCodeNoEntryRules, "strategy %s has no entry rules", s.Name)
	}

	for i, rule := range s.Rules {
		if err := rule.Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidRule, err, "rule %d of strategy %s", i, s.Name)
		}
	}

	return nil
}

// Validate checks that the rule has exactly the right hand side its operator needs.
func (r StrategyRule) Validate() error {
	if r.Operator.IsBandOperator() {
		if r.Compare == nil {
			return errors.Newf(errors.ErrCodeInvalidRule, "operator %s requires a bollinger compare", r.Operator)
		}

		if r.Compare.Indicator != IndicatorTypeBollingerBands {
			return errors.Newf(errors.ErrCodeInvalidRule, "operator %s compares against bollinger, got %s", r.Operator, r.Compare.Indicator)
		}

		if r.Threshold != nil {
			return errors.Newf(errors.ErrCodeInvalidRule, "operator %s does not take a threshold", r.Operator)
		}

		return nil
	}

	if (r.Threshold == nil) == (r.Compare == nil) {
		return errors.Newf(errors.ErrCodeInvalidRule, "operator %s needs exactly one of threshold or compare", r.Operator)
	}

	return nil
}

// EntryLogicOrDefault returns the entry logic, AND when unset.
func (s Strategy) EntryLogicOrDefault() Logic {
	if s.EntryLogic == "" {
		return LogicAnd
	}

	return s.EntryLogic
}

// ExitLogicOrDefault returns the exit logic, OR when unset.
func (s Strategy) ExitLogicOrDefault() Logic {
	if s.ExitLogic == "" {
		return LogicOr
	}

	return s.ExitLogic
}

// EntryRules returns the entry rules in declaration order.
func (s Strategy) EntryRules() []StrategyRule {
	return s.rulesOfKind(RuleKindEntry)
}

// ExitRules returns the exit rules in declaration order.
func (s Strategy) ExitRules() []StrategyRule {
	return s.rulesOfKind(RuleKindExit)
}

func (s Strategy) rulesOfKind(kind RuleKind) []StrategyRule {
	rules := make([]StrategyRule, 0, len(s.Rules))

	for _, rule := range s.Rules {
		if rule.Kind == kind {
			rules = append(rules, rule)
		}
	}

	return rules
}

// References returns every indicator reference used by the strategy, left
// hand sides first, in declaration order.
func (s Strategy) References() []IndicatorRef {
	refs := make([]IndicatorRef, 0, len(s.Rules)*2)

	for _, rule := range s.Rules {
		refs = append(refs, rule.Indicator)
		if rule.Compare != nil {
			refs = append(refs, *rule.Compare)
		}
	}

	return refs
}
