package engine

import (
	"context"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnBacktestStartCallback is called once the strategy compiled and before the first bar.
type OnBacktestStartCallback func(symbol string, strategyName string, totalBars int) error

// OnBacktestEndCallback is called when the run completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnProcessDataCallback is called for each bar processed.
type OnProcessDataCallback func(current int, total int) error

// OnTradeOpenedCallback is called after a position is opened.
type OnTradeOpenedCallback func(trade types.Trade) error

// OnTradeClosedCallback is called after a position is closed, including the forced close at the end of data.
type OnTradeClosedCallback func(trade types.Trade) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnProcessData   *OnProcessDataCallback
	OnTradeOpened   *OnTradeOpenedCallback
	OnTradeClosed   *OnTradeClosedCallback
}

type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// Run replays bars against the strategy and returns the completed result.
	// Strategy errors are returned before any bar is processed.
	// The context can be used to cancel the backtest operation.
	Run(ctx context.Context, symbol string, bars []types.PriceBar, strategy types.Strategy, callbacks LifecycleCallbacks) (types.BacktestResult, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
