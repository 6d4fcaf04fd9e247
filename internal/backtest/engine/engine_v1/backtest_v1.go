package engine

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/utils"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

type BacktestEngineV1 struct {
	config            BacktestEngineV1Config
	indicatorRegistry indicator.IndicatorRegistry
	commissionFee     commission_fee.CommissionFee
	// states holds idle run ledgers; each Run takes its own.
	states      sync.Pool
	log         *logger.Logger
	initialized bool
}

// NewBacktestEngineV1 creates an engine with the built-in indicators.
func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:            EmptyConfig(),
		indicatorRegistry: indicator.NewDefaultRegistry(),
	}
}

// NewBacktestEngineV1WithRegistry creates an engine that resolves strategy
// references against registry and logs to log. A nil log is replaced when the
// engine is initialized.
func NewBacktestEngineV1WithRegistry(registry indicator.IndicatorRegistry, log *logger.Logger) engine.Engine {
	return &BacktestEngineV1{
		config:            EmptyConfig(),
		indicatorRegistry: registry,
		log:               log,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	if b.log == nil {
		log, err := logger.NewLogger()
		if err != nil {
			return err
		}

		b.log = log
	}

	parsed, err := ParseConfig(config)
	if err != nil {
		b.log.Error("Failed to parse backtest config",
			zap.Error(err),
		)

		return err
	}

	b.config = parsed
	b.commissionFee = commission_fee.GetCommissionFeeHandler(b.config.Broker, b.config.CommissionRate)
	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_capital", b.config.InitialCapital),
		zap.Float64("position_size", b.config.PositionSize),
		zap.String("broker", string(b.config.Broker)),
	)

	return nil
}

// Run implements engine.Engine. Concurrent calls on one initialized engine
// are safe.
func (b *BacktestEngineV1) Run(ctx context.Context, symbol string, bars []types.PriceBar, strategy types.Strategy, callbacks engine.LifecycleCallbacks) (result types.BacktestResult, err error) {
	if !b.initialized {
		return types.BacktestResult{}, errors.New(errors.ErrCodeBacktestNotInitialized, "backtest engine is not initialized")
	}

	if callbacks.OnBacktestEnd != nil {
		defer func() {
			(*callbacks.OnBacktestEnd)(err)
		}()
	}

	// series see the full history, the window only bounds the simulation
	program, err := compileStrategy(strategy, bars, b.indicatorRegistry)
	if err != nil {
		b.log.Error("Failed to compile strategy",
			zap.String("strategy", strategy.Name),
			zap.Error(err),
		)

		return types.BacktestResult{}, err
	}

	from, to := b.window(bars)
	total := to - from

	if callbacks.OnBacktestStart != nil {
		if err := (*callbacks.OnBacktestStart)(symbol, strategy.Name, total); err != nil {
			return types.BacktestResult{}, errors.Wrap(errors.ErrCodeCallbackFailed, "backtest start callback failed", err)
		}
	}

	b.log.Debug("Running strategy",
		zap.String("strategy", strategy.Name),
		zap.String("symbol", symbol),
		zap.Int("bars", total),
		zap.Int("history", from),
	)

	state := b.acquireState()
	defer b.states.Put(state)

	state.Reset(b.config.InitialCapital, total)

	for i := from; i < to; i++ {
		if err := ctx.Err(); err != nil {
			return types.BacktestResult{}, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", err)
		}

		if err := b.step(state, program, i, i-from >= b.config.WarmupBars, bars[i], callbacks); err != nil {
			return types.BacktestResult{}, err
		}

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(i-from+1, total); err != nil {
				return types.BacktestResult{}, errors.Wrap(errors.ErrCodeCallbackFailed, "process data callback failed", err)
			}
		}
	}

	if total > 0 && state.HasPosition() {
		last := to - 1
		if err := b.exit(state, last, bars[last], bars[last].Close, types.ExitReasonEndOfData, callbacks); err != nil {
			return types.BacktestResult{}, err
		}

		state.Restate(state.Equity(bars[last].Close))
	}

	result = types.BacktestResult{
		ID:          uuid.New().String(),
		Strategy:    strategy.Name,
		Symbol:      symbol,
		Trades:      state.Trades(),
		EquityCurve: state.EquityCurve(),
	}

	if total > 0 {
		result.StartTime = bars[from].Time
		result.EndTime = bars[to-1].Time
	}

	result.Statistics = calculateStatistics(b.config.InitialCapital, bars[from:to], result.EquityCurve, result.Trades, state.TotalFees(), b.config.BarsPerYear)

	b.log.Debug("Backtest finished",
		zap.String("strategy", strategy.Name),
		zap.String("symbol", symbol),
		zap.Int("trades", result.Statistics.NumberOfTrades),
		zap.Float64("total_return", result.Statistics.TotalReturn),
	)

	return result, nil
}

func (b *BacktestEngineV1) acquireState() *BacktestState {
	if state, ok := b.states.Get().(*BacktestState); ok {
		return state
	}

	return NewBacktestState(b.log)
}

// step runs bar i: exits first, then entries when flat, then the equity mark.
// Rules are only evaluated on active bars.
func (b *BacktestEngineV1) step(state *BacktestState, program *compiledStrategy, i int, active bool, bar types.PriceBar, callbacks engine.LifecycleCallbacks) error {
	if active && state.HasPosition() {
		trade := state.Position().Unwrap()

		switch {
		case program.stopLoss.IsSome() && bar.Low <= trade.EntryPrice*(1-program.stopLoss.Unwrap()):
			// gaps through the stop fill at the open
			stop := math.Min(bar.Open, trade.EntryPrice*(1-program.stopLoss.Unwrap()))
			if err := b.exit(state, i, bar, stop, types.ExitReasonStop, callbacks); err != nil {
				return err
			}
		case evaluate(program.exit, program.exitLogic, i):
			if err := b.exit(state, i, bar, bar.Close, types.ExitReasonSignal, callbacks); err != nil {
				return err
			}
		}
	}

	if active && !state.HasPosition() && evaluate(program.entry, program.entryLogic, i) {
		if err := b.enter(state, i, bar, callbacks); err != nil {
			return err
		}
	}

	state.Record(i, bar.Time, state.Equity(bar.Close))

	return nil
}

func (b *BacktestEngineV1) enter(state *BacktestState, i int, bar types.PriceBar, callbacks engine.LifecycleCallbacks) error {
	price := bar.Close

	quantity := utils.CalculateOrderQuantityByPercentage(state.Cash(), price, b.commissionFee, b.config.PositionSize, b.config.DecimalPrecision)
	if quantity <= 0 {
		b.log.Debug("Entry signal skipped, quantity rounds to zero",
			zap.Int("index", i),
			zap.Float64("cash", state.Cash()),
			zap.Float64("price", price),
		)

		return nil
	}

	trade, ok := state.Open(i, bar.Time, price, quantity, b.commissionFee.Calculate(quantity, price))
	if !ok {
		return nil
	}

	if callbacks.OnTradeOpened != nil {
		if err := (*callbacks.OnTradeOpened)(trade); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "trade opened callback failed", err)
		}
	}

	return nil
}

func (b *BacktestEngineV1) exit(state *BacktestState, i int, bar types.PriceBar, price float64, reason types.ExitReason, callbacks engine.LifecycleCallbacks) error {
	quantity := state.Position().Unwrap().Quantity

	trade, ok := state.Close(i, bar.Time, price, b.commissionFee.Calculate(quantity, price), reason)
	if !ok {
		return nil
	}

	if callbacks.OnTradeClosed != nil {
		if err := (*callbacks.OnTradeClosed)(trade); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "trade closed callback failed", err)
		}
	}

	return nil
}

// window returns the half-open index range of the bars inside the configured
// start and end time. Bars are in ascending time order.
func (b *BacktestEngineV1) window(bars []types.PriceBar) (int, int) {
	from, to := 0, len(bars)

	if b.config.StartTime.IsSome() {
		start := b.config.StartTime.Unwrap()
		from = sort.Search(len(bars), func(i int) bool {
			return !bars[i].Time.Before(start)
		})
	}

	if b.config.EndTime.IsSome() {
		end := b.config.EndTime.Unwrap()
		to = sort.Search(len(bars), func(i int) bool {
			return bars[i].Time.After(end)
		})
	}

	if to < from {
		to = from
	}

	return from, to
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to generate schema", err)
	}

	return schema, nil
}
