package scorer

import (
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

var validate = validator.New()

// Config controls the scoring rubric and the trade bracket.
type Config struct {
	Indicators indicator.Config `yaml:"indicators" json:"indicators"`
	// Oversold is the RSI level below which the oscillator counts as bullish.
	Oversold float64 `yaml:"oversold" json:"oversold" default:"30" validate:"gte=0,lte=100"`
	// Overbought is the RSI level above which the oscillator counts as bearish.
	Overbought float64 `yaml:"overbought" json:"overbought" default:"70" validate:"gtfield=Oversold,lte=100"`
	// EntryDiscount shaves the current price for a BUY entry.
	EntryDiscount float64 `yaml:"entry_discount" json:"entry_discount" default:"0.998" validate:"gt=0"`
	// ShortPremium lifts the current price for a SELL entry.
	ShortPremium float64 `yaml:"short_premium" json:"short_premium" default:"1.002" validate:"gt=0"`
	// ConfidenceCap bounds the reported confidence.
	ConfidenceCap float64 `yaml:"confidence_cap" json:"confidence_cap" default:"95" validate:"gte=50,lte=100"`
	TimeHorizon   string  `yaml:"time_horizon" json:"time_horizon" default:"1-2 weeks"`
	// MinConfidence is the default filter used by Scan callers.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence" default:"0" validate:"gte=0,lte=100"`
	// Concurrency limits how many instruments Scan scores at once.
	Concurrency int `yaml:"concurrency" json:"concurrency" default:"8" validate:"gt=0"`
}

// DefaultConfig returns the standard rubric configuration.
func DefaultConfig() Config {
	var cfg Config
	// defaults.Set only fails on malformed tags
	_ = defaults.Set(&cfg)

	return cfg
}

// Validate checks the rubric and the indicator periods.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid scorer config", err)
	}

	return c.Indicators.Validate()
}
