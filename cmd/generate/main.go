package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	engine "github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/utils"
	"gopkg.in/yaml.v3"
)

const (
	configSchemaName   = "backtest-engine-v1-config.json"
	strategySchemaName = "strategy.json"
)

func main() {
	if err := generate("./config"); err != nil {
		log.Fatal(err)
	}
}

// generate writes the engine config and strategy schemas into dir, each with a
// sample document that is only created when missing.
func generate(dir string) error {
	config := engine.EmptyConfig()

	configSchema, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate config schema: %w", err)
	}

	strategySchema, err := utils.GetSchemaFromConfig(&types.Strategy{})
	if err != nil {
		return fmt.Errorf("failed to generate strategy schema: %w", err)
	}

	artifacts := []struct {
		schemaName string
		schema     string
		sampleName string
		sample     any
	}{
		{configSchemaName, configSchema, "backtest-engine-v1-config.yaml", config},
		{strategySchemaName, strategySchema, "strategy.yaml", sampleStrategy()},
	}

	for _, artifact := range artifacts {
		schemaPath := filepath.Join(dir, artifact.schemaName)
		samplePath := filepath.Join(dir, artifact.sampleName)

		if err := validateSchemaName(artifact.schemaName); err != nil {
			return err
		}

		if err := validatePaths(schemaPath, samplePath); err != nil {
			return err
		}

		if err := generateSchemaFile(artifact.schema, schemaPath); err != nil {
			return err
		}

		log.Printf("Schema successfully generated at %s", schemaPath)

		if err := generateSampleConfig(artifact.sample, samplePath, artifact.schemaName); err != nil {
			return err
		}
	}

	return nil
}

// sampleStrategy is an RSI mean reversion strategy with a trend filter.
func sampleStrategy() types.Strategy {
	oversold := 30.0
	overbought := 70.0
	stopLoss := 0.05

	return types.Strategy{
		Name:          "rsi-mean-reversion",
		EngineVersion: ">= 1.0.0",
		EntryLogic:    types.LogicAnd,
		ExitLogic:     types.LogicOr,
		StopLossPct:   &stopLoss,
		Rules: []types.StrategyRule{
			{
				Kind:      types.RuleKindEntry,
				Indicator: types.IndicatorRef{Indicator: types.IndicatorTypeRSI, Params: map[string]float64{"period": 14}},
				Operator:  types.OperatorLessThan,
				Threshold: &oversold,
			},
			{
				Kind:      types.RuleKindEntry,
				Indicator: types.IndicatorRef{Indicator: types.IndicatorTypePrice},
				Operator:  types.OperatorGreaterThan,
				Compare:   &types.IndicatorRef{Indicator: types.IndicatorTypeSMA, Params: map[string]float64{"period": 200}},
			},
			{
				Kind:      types.RuleKindExit,
				Indicator: types.IndicatorRef{Indicator: types.IndicatorTypeRSI, Params: map[string]float64{"period": 14}},
				Operator:  types.OperatorGreaterThan,
				Threshold: &overbought,
			},
		},
	}
}

func generateSchemaFile(schema string, schemaPath string) error {
	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes sample as YAML with a schema reference header.
// An existing file is left untouched.
func generateSampleConfig(sample any, samplePath string, schemaName string) error {
	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schemaName)), yamlBytes...)

	if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	log.Printf("Sample config successfully generated at %s", samplePath)

	return nil
}

func validatePaths(schemaPath string, sampleConfigPath string) error {
	if schemaPath == "" {
		return fmt.Errorf("schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return fmt.Errorf("sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(schemaName string) error {
	if schemaName == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	if !strings.HasSuffix(schemaName, ".json") {
		return fmt.Errorf("schema name %s must have .json extension", schemaName)
	}

	return nil
}

func getSchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}
