package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type BacktestEngineV1Config struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" default:"10000" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0,default=10000"`
	// PositionSize is the fraction of current cash committed to each entry.
	PositionSize     float64                    `yaml:"position_size" json:"position_size" default:"1" validate:"gt=0,lte=1" jsonschema:"title=Position Size,description=Fraction of current cash used per entry,minimum=0,maximum=1,default=1"`
	Broker           commission_fee.Broker      `yaml:"broker" json:"broker" default:"zero_commission" validate:"oneof=interactive_broker zero_commission percentage" jsonschema:"title=Broker,description=The broker to use for commission calculations"`
	CommissionRate   float64                    `yaml:"commission_rate" json:"commission_rate" validate:"gte=0,lt=1" jsonschema:"title=Commission Rate,description=Fraction of notional charged by the percentage broker,minimum=0,maximum=1"`
	DecimalPrecision int                        `yaml:"decimal_precision" json:"decimal_precision" default:"4" validate:"gte=0,lte=8" jsonschema:"title=Decimal Precision,description=Number of decimals allowed in position quantities,minimum=0,maximum=8,default=4"`
	BarsPerYear      int                        `yaml:"bars_per_year" json:"bars_per_year" default:"252" validate:"gt=0" jsonschema:"title=Bars Per Year,description=Bars in one year used to annualize the Sharpe ratio,minimum=1,default=252"`
	WarmupBars       int                        `yaml:"warmup_bars" json:"warmup_bars" validate:"gte=0" jsonschema:"title=Warmup Bars,description=Bars at the start of the series on which no rule is evaluated,minimum=0"`
	StartTime        optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime          optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
func (c *BacktestEngineV1Config) UnmarshalYAML(value *yaml.Node) error {
	type Config struct {
		InitialCapital   float64               `yaml:"initial_capital"`
		PositionSize     float64               `yaml:"position_size"`
		Broker           commission_fee.Broker `yaml:"broker"`
		CommissionRate   float64               `yaml:"commission_rate"`
		DecimalPrecision int                   `yaml:"decimal_precision"`
		BarsPerYear      int                   `yaml:"bars_per_year"`
		WarmupBars       int                   `yaml:"warmup_bars"`
		StartTime        *time.Time            `yaml:"start_time"`
		EndTime          *time.Time            `yaml:"end_time"`
	}

	// fields missing from the document keep their current values
	config := Config{
		InitialCapital:   c.InitialCapital,
		PositionSize:     c.PositionSize,
		Broker:           c.Broker,
		CommissionRate:   c.CommissionRate,
		DecimalPrecision: c.DecimalPrecision,
		BarsPerYear:      c.BarsPerYear,
		WarmupBars:       c.WarmupBars,
	}

	if c.StartTime.IsSome() {
		start := c.StartTime.Unwrap()
		config.StartTime = &start
	}

	if c.EndTime.IsSome() {
		end := c.EndTime.Unwrap()
		config.EndTime = &end
	}

	if err := value.Decode(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.PositionSize = config.PositionSize
	c.Broker = config.Broker
	c.CommissionRate = config.CommissionRate
	c.DecimalPrecision = config.DecimalPrecision
	c.BarsPerYear = config.BarsPerYear
	c.WarmupBars = config.WarmupBars
	c.StartTime = optional.None[time.Time]()
	c.EndTime = optional.None[time.Time]()

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// MarshalYAML writes the optional bounds as timestamps and omits them when unset.
func (c BacktestEngineV1Config) MarshalYAML() (interface{}, error) {
	type Config struct {
		InitialCapital   float64               `yaml:"initial_capital"`
		PositionSize     float64               `yaml:"position_size"`
		Broker           commission_fee.Broker `yaml:"broker"`
		CommissionRate   float64               `yaml:"commission_rate"`
		DecimalPrecision int                   `yaml:"decimal_precision"`
		BarsPerYear      int                   `yaml:"bars_per_year"`
		WarmupBars       int                   `yaml:"warmup_bars"`
		StartTime        *time.Time            `yaml:"start_time,omitempty"`
		EndTime          *time.Time            `yaml:"end_time,omitempty"`
	}

	config := Config{
		InitialCapital:   c.InitialCapital,
		PositionSize:     c.PositionSize,
		Broker:           c.Broker,
		CommissionRate:   c.CommissionRate,
		DecimalPrecision: c.DecimalPrecision,
		BarsPerYear:      c.BarsPerYear,
		WarmupBars:       c.WarmupBars,
	}

	if c.StartTime.IsSome() {
		start := c.StartTime.Unwrap()
		config.StartTime = &start
	}

	if c.EndTime.IsSome() {
		end := c.EndTime.Unwrap()
		config.EndTime = &end
	}

	return config, nil
}

// ParseConfig decodes a YAML engine configuration on top of the defaults and
// validates the result. Explicit zero values in the document are kept.
func ParseConfig(content string) (BacktestEngineV1Config, error) {
	var config BacktestEngineV1Config

	if err := defaults.Set(&config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to set config defaults", err)
	}

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return BacktestEngineV1Config{}, err
	}

	return config, nil
}

// Validate checks field ranges and that the time window is not inverted.
func (c BacktestEngineV1Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeBacktestConfigError, "end_time is before start_time")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type:    "string",
					Enum:    commission_fee.AllBrokers,
					Default: commission_fee.BrokerZero,
				}
			}
			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

func TestConfig(startTime time.Time, endTime time.Time, broker commission_fee.Broker) BacktestEngineV1Config {
	config := EmptyConfig()
	config.Broker = broker
	config.StartTime = optional.Some(startTime)
	config.EndTime = optional.Some(endTime)

	return config
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:   10000,
		PositionSize:     1,
		Broker:           commission_fee.BrokerZero,
		CommissionRate:   0,
		DecimalPrecision: 4,
		BarsPerYear:      252,
		WarmupBars:       0,
		StartTime:        optional.None[time.Time](),
		EndTime:          optional.None[time.Time](),
	}
}
