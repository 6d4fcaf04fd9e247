package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/datasource"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/scorer"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func signalAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	config, err := readConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	s, err := scorer.NewScorer(config, log)
	if err != nil {
		return err
	}

	files, err := filepath.Glob(cmd.String("data"))
	if err != nil {
		return fmt.Errorf("invalid data pattern: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no data files match %s", cmd.String("data"))
	}

	instruments := make([]scorer.Instrument, 0, len(files))

	for _, file := range files {
		bars, err := datasource.LoadFile(file, optional.None[time.Time](), optional.None[time.Time](), log)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}

		instruments = append(instruments, scorer.Instrument{
			Symbol: datasource.SymbolFromPath(file),
			Bars:   bars,
		})
	}

	minConfidence := config.MinConfidence
	if cmd.IsSet("min-confidence") {
		minConfidence = cmd.Float("min-confidence")
	}

	signals, err := s.Scan(ctx, instruments, minConfidence)
	if err != nil {
		return err
	}

	log.Info("Scan completed",
		zap.Int("instruments", len(instruments)),
		zap.Int("signals", len(signals)),
		zap.Float64("min_confidence", minConfidence),
	)

	encoder := json.NewEncoder(cmd.Root().Writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(signals)
}

// readConfig loads a scorer config on top of the defaults. An empty path
// returns the defaults.
func readConfig(path string) (scorer.Config, error) {
	config := scorer.DefaultConfig()
	if path == "" {
		return config, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return scorer.Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return scorer.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "signal",
		Usage: "Score instruments and print the trading signals as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "CSV or Parquet files, for example `data/*.parquet`. The symbol is taken from the file name",
				Required: true,
			},
			&cli.FloatFlag{
				Name:    "min-confidence",
				Aliases: []string{"m"},
				Usage:   "Only print signals with at least this confidence (0-100)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a scorer config YAML file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Action: signalAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
