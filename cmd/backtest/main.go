package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-quant/internal/datasource"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	files, err := filepath.Glob(cmd.String("data"))
	if err != nil {
		return fmt.Errorf("invalid data pattern: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no data files match %s", cmd.String("data"))
	}

	strategy, err := types.LoadStrategy(cmd.String("strategy"))
	if err != nil {
		return err
	}

	config, err := readConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	backtester := engine_v1.NewBacktestEngineV1WithRegistry(indicator.NewDefaultRegistry(), log)
	if err := backtester.Initialize(config); err != nil {
		return err
	}

	for _, file := range files {
		symbol := datasource.SymbolFromPath(file)

		log.Info("Processing file",
			zap.String("file", file),
			zap.String("symbol", symbol),
		)

		bars, err := loadBars(file, datasource.Interval(cmd.String("interval")), log)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}

		result, err := backtester.Run(ctx, symbol, bars, strategy, progressCallbacks())
		if err != nil {
			return fmt.Errorf("backtest of %s failed: %w", symbol, err)
		}

		resultFolder := filepath.Join(cmd.String("results"), strategy.Name, symbol)
		if err := writeResult(resultFolder, result); err != nil {
			return err
		}

		log.Info("Backtest completed",
			zap.String("symbol", symbol),
			zap.Int("trades", result.Statistics.NumberOfTrades),
			zap.Float64("total_return", result.Statistics.TotalReturn),
			zap.Float64("sharpe_ratio", result.Statistics.SharpeRatio),
			zap.String("results", resultFolder),
		)
	}

	return nil
}

// readConfig returns the engine config document at path. An empty path runs
// with the defaults.
func readConfig(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read config: %w", err)
	}

	return string(content), nil
}

func loadBars(path string, interval datasource.Interval, log *logger.Logger) ([]types.PriceBar, error) {
	if interval == "" {
		return datasource.LoadFile(path, optional.None[time.Time](), optional.None[time.Time](), log)
	}

	return datasource.LoadResampled(path, interval, optional.None[time.Time](), optional.None[time.Time](), log)
}

// progressCallbacks draws one progress bar per run.
func progressCallbacks() engine.LifecycleCallbacks {
	var bar *progressbar.ProgressBar

	onStart := engine.OnBacktestStartCallback(func(symbol, strategyName string, totalBars int) error {
		bar = progressbar.NewOptions(totalBars,
			progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s with %s", symbol, strategyName)),
			progressbar.OptionShowCount(),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)

		return nil
	})

	onProcess := engine.OnProcessDataCallback(func(current, total int) error {
		return bar.Set(current)
	})

	onEnd := engine.OnBacktestEndCallback(func(err error) {
		if bar != nil {
			_ = bar.Finish()
		}
	})

	return engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnProcessData:   &onProcess,
		OnBacktestEnd:   &onEnd,
	}
}

// writeResult writes stats.yaml, trades.csv and equity.csv into folder.
func writeResult(folder string, result types.BacktestResult) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return fmt.Errorf("failed to create results folder: %w", err)
	}

	if err := types.WriteBacktestStats(filepath.Join(folder, "stats.yaml"), result); err != nil {
		return err
	}

	if err := types.WriteTrades(filepath.Join(folder, "trades.csv"), result.Trades); err != nil {
		return err
	}

	return types.WriteEquityCurve(filepath.Join(folder, "equity.csv"), result.EquityCurve)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Backtest a declarative strategy against historical bars",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "CSV or Parquet file, or a glob such as `data/*.parquet`",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    "Path to the strategy YAML file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the engine config YAML file. Defaults are used when omitted",
			},
			&cli.StringFlag{
				Name:    "results",
				Aliases: []string{"r"},
				Usage:   "Folder that receives one result folder per strategy and symbol",
				Value:   "results",
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Resample the data to this interval (1m, 5m, 15m, 30m, 1h, 4h, 1d, 1w)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Action: backtestAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
