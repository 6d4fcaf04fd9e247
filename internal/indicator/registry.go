package indicator

import (
	"math"
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// IndicatorRegistry manages all available indicators.
type IndicatorRegistry interface {
	RegisterIndicator(indicator Indicator) error
	GetIndicator(name types.IndicatorType) (Indicator, error)
	ListIndicators() []types.IndicatorType
	RemoveIndicator(name types.IndicatorType) error
	// Resolve checks a reference and returns its field and complete
	// parameter set with defaults filled in.
	Resolve(ref types.IndicatorRef) (ResolvedRef, error)
	// Series resolves ref and computes its value series over bars.
	Series(bars []types.PriceBar, ref types.IndicatorRef) ([]float64, error)
}

// ResolvedRef is a validated indicator reference.
type ResolvedRef struct {
	Indicator Indicator
	Field     string
	Params    map[string]float64
}

// IndicatorRegistryV1 manages all available indicators.
type IndicatorRegistryV1 struct {
	indicators map[types.IndicatorType]Indicator
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates a new empty indicator registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		indicators: make(map[types.IndicatorType]Indicator),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry with every built-in indicator.
func NewDefaultRegistry() IndicatorRegistry {
	registry := NewIndicatorRegistry()

	for _, ind := range []Indicator{
		NewPrice(),
		NewRSI(),
		NewSMA(),
		NewEMA(),
		NewMACD(),
		NewBollingerBands(),
		NewTrend(),
		NewATR(),
	} {
		// names are unique so registration cannot fail
		_ = registry.RegisterIndicator(ind)
	}

	return registry
}

// RegisterIndicator adds an indicator to the registry.
func (r *IndicatorRegistryV1) RegisterIndicator(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := indicator.Name()
	if _, exists := r.indicators[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator with name %s already registered", name)
	}

	r.indicators[name] = indicator

	return nil
}

// GetIndicator retrieves an indicator by name.
func (r *IndicatorRegistryV1) GetIndicator(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	return indicator, nil
}

// ListIndicators returns the sorted names of all registered indicators.
func (r *IndicatorRegistryV1) ListIndicators() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.indicators))
	for name := range r.indicators {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// RemoveIndicator removes an indicator from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	delete(r.indicators, name)

	return nil
}

func (r *IndicatorRegistryV1) Resolve(ref types.IndicatorRef) (ResolvedRef, error) {
	ind, err := r.GetIndicator(ref.Indicator)
	if err != nil {
		return ResolvedRef{}, err
	}

	fields := ind.Fields()

	field := ref.Field
	if field == "" {
		field = fields[0]
	}

	if !contains(fields, field) {
		return ResolvedRef{}, errors.Newf(errors.ErrCodeUnknownIndicatorField, "indicator %s has no field %s", ref.Indicator, field)
	}

	params := ind.Params()

	for name, value := range ref.Params {
		if _, ok := params[name]; !ok {
			return ResolvedRef{}, errors.Newf(errors.ErrCodeUnknownIndicatorParam, "indicator %s has no parameter %s", ref.Indicator, name)
		}

		if math.IsNaN(value) || math.IsInf(value, 0) {
			return ResolvedRef{}, invalidParam(ref.Indicator, name, "must be finite")
		}

		params[name] = value
	}

	if err := ind.Validate(params); err != nil {
		return ResolvedRef{}, err
	}

	return ResolvedRef{Indicator: ind, Field: field, Params: params}, nil
}

func (r *IndicatorRegistryV1) Series(bars []types.PriceBar, ref types.IndicatorRef) ([]float64, error) {
	resolved, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}

	return resolved.Indicator.Series(bars, resolved.Field, resolved.Params), nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}

// requirePeriod checks that params[name] is a positive integer.
func requirePeriod(indicator types.IndicatorType, params map[string]float64, name string) error {
	value := params[name]
	if value < 1 || value != math.Trunc(value) {
		return invalidParam(indicator, name, "must be a positive integer")
	}

	return nil
}

func invalidParam(indicator types.IndicatorType, name string, reason string) error {
	return errors.Newf(errors.ErrCodeInvalidIndicatorParam, "parameter %s of indicator %s %s", name, indicator, reason)
}
