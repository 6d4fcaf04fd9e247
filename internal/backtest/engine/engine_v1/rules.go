package engine

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/version"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// compiledRule is a rule with every indicator series it reads precomputed.
type compiledRule struct {
	operator  types.Operator
	threshold optional.Option[float64]
	left      []float64
	right     []float64
	upper     []float64
	lower     []float64
}

// compiledStrategy is a strategy ready to be evaluated bar by bar.
type compiledStrategy struct {
	name       string
	entry      []compiledRule
	exit       []compiledRule
	entryLogic types.Logic
	exitLogic  types.Logic
	stopLoss   optional.Option[float64]
}

// seriesCache computes each distinct resolved reference once per run.
type seriesCache struct {
	registry indicator.IndicatorRegistry
	bars     []types.PriceBar
	series   map[string][]float64
}

func newSeriesCache(registry indicator.IndicatorRegistry, bars []types.PriceBar) *seriesCache {
	return &seriesCache{
		registry: registry,
		bars:     bars,
		series:   make(map[string][]float64),
	}
}

func (c *seriesCache) get(ref types.IndicatorRef) ([]float64, error) {
	resolved, err := c.registry.Resolve(ref)
	if err != nil {
		return nil, err
	}

	key := types.IndicatorRef{
		Indicator: ref.Indicator,
		Field:     resolved.Field,
		Params:    resolved.Params,
	}.Key()

	if series, ok := c.series[key]; ok {
		return series, nil
	}

	series := resolved.Indicator.Series(c.bars, resolved.Field, resolved.Params)
	c.series[key] = series

	return series, nil
}

// compileStrategy validates the strategy, checks its engine constraint and
// resolves every indicator reference before any bar is simulated.
func compileStrategy(strategy types.Strategy, bars []types.PriceBar, registry indicator.IndicatorRegistry) (*compiledStrategy, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	if err := version.CheckConstraint(version.GetVersion(), strategy.EngineVersion); err != nil {
		return nil, err
	}

	cache := newSeriesCache(registry, bars)

	var err error

	compiled := &compiledStrategy{
		name:       strategy.Name,
		entryLogic: strategy.EntryLogicOrDefault(),
		exitLogic:  strategy.ExitLogicOrDefault(),
		stopLoss:   optional.None[float64](),
	}

	if strategy.StopLossPct != nil {
		compiled.stopLoss = optional.Some(*strategy.StopLossPct)
	}

	// every declared reference must resolve, band compare fields included
	for _, ref := range strategy.References() {
		if _, err := registry.Resolve(ref); err != nil {
			return nil, errors.Wrapf(errors.GetCode(err), err, "indicator %s of strategy %s", ref.Indicator, strategy.Name)
		}
	}

	if compiled.entry, err = compileRules(strategy.EntryRules(), cache); err != nil {
		return nil, errors.Wrapf(errors.GetCode(err), err, "entry rules of strategy %s", strategy.Name)
	}

	if compiled.exit, err = compileRules(strategy.ExitRules(), cache); err != nil {
		return nil, errors.Wrapf(errors.GetCode(err), err, "exit rules of strategy %s", strategy.Name)
	}

	return compiled, nil
}

func compileRules(rules []types.StrategyRule, cache *seriesCache) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for i, rule := range rules {
		cr, err := compileRule(rule, cache)
		if err != nil {
			return nil, errors.Wrapf(errors.GetCode(err), err, "rule %d", i)
		}

		compiled = append(compiled, cr)
	}

	return compiled, nil
}

func compileRule(rule types.StrategyRule, cache *seriesCache) (compiledRule, error) {
	left, err := cache.get(rule.Indicator)
	if err != nil {
		return compiledRule{}, err
	}

	cr := compiledRule{
		operator:  rule.Operator,
		threshold: optional.None[float64](),
		left:      left,
	}

	if rule.Operator.IsBandOperator() {
		// the compare field is ignored, both bands are always read
		upperRef := *rule.Compare
		upperRef.Field = indicator.FieldUpper

		lowerRef := *rule.Compare
		lowerRef.Field = indicator.FieldLower

		if cr.upper, err = cache.get(upperRef); err != nil {
			return compiledRule{}, err
		}

		if cr.lower, err = cache.get(lowerRef); err != nil {
			return compiledRule{}, err
		}

		return cr, nil
	}

	if rule.Threshold != nil {
		cr.threshold = optional.Some(*rule.Threshold)

		return cr, nil
	}

	if cr.right, err = cache.get(*rule.Compare); err != nil {
		return compiledRule{}, err
	}

	return cr, nil
}

// holds evaluates the rule on bar i.
func (r compiledRule) holds(i int) bool {
	if i >= len(r.left) {
		return false
	}

	value := r.left[i]

	switch r.operator {
	case types.OperatorInside:
		return value >= r.lower[i] && value <= r.upper[i]
	case types.OperatorOutside:
		return value > r.upper[i] || value < r.lower[i]
	}

	var rhs float64
	if r.threshold.IsSome() {
		rhs = r.threshold.Unwrap()
	} else {
		rhs = r.right[i]
	}

	switch r.operator {
	case types.OperatorGreaterThan:
		return value > rhs
	case types.OperatorGreaterThanOrEqual:
		return value >= rhs
	case types.OperatorLessThan:
		return value < rhs
	case types.OperatorLessThanOrEqual:
		return value <= rhs
	default:
		return false
	}
}

// evaluate combines the rules on bar i. An empty rule list never fires.
func evaluate(rules []compiledRule, logic types.Logic, i int) bool {
	if len(rules) == 0 {
		return false
	}

	if logic == types.LogicOr {
		for _, rule := range rules {
			if rule.holds(i) {
				return true
			}
		}

		return false
	}

	for _, rule := range rules {
		if !rule.holds(i) {
			return false
		}
	}

	return true
}
