package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BacktestState is the cash ledger and trade book of a single run.
// Cash and fees are kept in decimal.
type BacktestState struct {
	logger    *logger.Logger
	cash      decimal.Decimal
	totalFees decimal.Decimal
	position  optional.Option[types.Trade]
	trades    []types.Trade
	equity    []types.EquityPoint
}

// NewBacktestState creates an empty state. Call Reset before the first run.
func NewBacktestState(logger *logger.Logger) *BacktestState {
	return &BacktestState{
		logger:   logger,
		position: optional.None[types.Trade](),
	}
}

// Reset clears the ledger for a new run of capacity bars. The equity buffer
// is reused across runs.
func (b *BacktestState) Reset(initialCapital float64, capacity int) {
	b.cash = decimal.NewFromFloat(initialCapital)
	b.totalFees = decimal.Zero
	b.position = optional.None[types.Trade]()
	b.trades = nil

	if cap(b.equity) < capacity {
		b.equity = make([]types.EquityPoint, 0, capacity)
	} else {
		b.equity = b.equity[:0]
	}
}

// Cash returns the uninvested cash.
func (b *BacktestState) Cash() float64 {
	return b.cash.InexactFloat64()
}

// HasPosition reports whether a position is open.
func (b *BacktestState) HasPosition() bool {
	return b.position.IsSome()
}

// Position returns the open trade, if any.
func (b *BacktestState) Position() optional.Option[types.Trade] {
	return b.position
}

// Open buys quantity at price, paying fee. It returns false without changing
// anything when a position is already open, the quantity is not positive, or
// the cost exceeds the available cash.
func (b *BacktestState) Open(index int, at time.Time, price float64, quantity float64, fee float64) (types.Trade, bool) {
	if b.position.IsSome() || quantity <= 0 || price <= 0 {
		return types.Trade{}, false
	}

	feeDec := decimal.NewFromFloat(fee)
	cost := decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).Add(feeDec)

	if cost.GreaterThan(b.cash) {
		b.logger.Debug("Insufficient cash for entry",
			zap.Int("index", index),
			zap.String("cost", cost.String()),
			zap.String("cash", b.cash.String()),
		)

		return types.Trade{}, false
	}

	b.cash = b.cash.Sub(cost)
	b.totalFees = b.totalFees.Add(feeDec)

	trade := types.Trade{
		ID:         uuid.New().String(),
		EntryIndex: index,
		EntryTime:  at,
		EntryPrice: price,
		Quantity:   quantity,
		ExitIndex:  optional.None[int](),
		ExitTime:   optional.None[time.Time](),
		ExitPrice:  optional.None[float64](),
		PnL:        optional.None[float64](),
		Fees:       fee,
	}
	b.position = optional.Some(trade)

	b.logger.Debug("Position opened",
		zap.String("id", trade.ID),
		zap.Int("index", index),
		zap.Float64("price", price),
		zap.Float64("quantity", quantity),
	)

	return trade, true
}

// Close sells the open position at price, paying fee, and appends the closed
// trade to the ledger.
func (b *BacktestState) Close(index int, at time.Time, price float64, fee float64, reason types.ExitReason) (types.Trade, bool) {
	if b.position.IsNone() {
		return types.Trade{}, false
	}

	trade := b.position.Unwrap()

	qty := decimal.NewFromFloat(trade.Quantity)
	feeDec := decimal.NewFromFloat(fee)
	exitPrice := decimal.NewFromFloat(price)
	entryPrice := decimal.NewFromFloat(trade.EntryPrice)
	entryFee := decimal.NewFromFloat(trade.Fees)

	b.cash = b.cash.Add(qty.Mul(exitPrice)).Sub(feeDec)
	b.totalFees = b.totalFees.Add(feeDec)

	pnl := qty.Mul(exitPrice.Sub(entryPrice)).Sub(entryFee).Sub(feeDec)

	trade.ExitIndex = optional.Some(index)
	trade.ExitTime = optional.Some(at)
	trade.ExitPrice = optional.Some(price)
	trade.PnL = optional.Some(pnl.InexactFloat64())
	trade.Fees = entryFee.Add(feeDec).InexactFloat64()
	trade.ExitReason = reason

	b.trades = append(b.trades, trade)
	b.position = optional.None[types.Trade]()

	b.logger.Debug("Position closed",
		zap.String("id", trade.ID),
		zap.Int("index", index),
		zap.Float64("price", price),
		zap.String("reason", string(reason)),
		zap.String("pnl", pnl.String()),
	)

	return trade, true
}

// Equity returns cash plus the open position marked at price.
func (b *BacktestState) Equity(price float64) float64 {
	equity := b.cash

	if b.position.IsSome() {
		trade := b.position.Unwrap()
		equity = equity.Add(decimal.NewFromFloat(trade.Quantity).Mul(decimal.NewFromFloat(price)))
	}

	return equity.InexactFloat64()
}

// Record appends an equity point for the bar.
func (b *BacktestState) Record(index int, at time.Time, equity float64) {
	b.equity = append(b.equity, types.EquityPoint{Index: index, Time: at, Equity: equity})
}

// Restate overwrites the equity of the last recorded point.
func (b *BacktestState) Restate(equity float64) {
	if len(b.equity) == 0 {
		return
	}

	b.equity[len(b.equity)-1].Equity = equity
}

// Trades returns a copy of the closed trades in order.
func (b *BacktestState) Trades() []types.Trade {
	trades := make([]types.Trade, len(b.trades))
	copy(trades, b.trades)

	return trades
}

// EquityCurve returns a copy of the recorded equity points.
func (b *BacktestState) EquityCurve() []types.EquityPoint {
	curve := make([]types.EquityPoint, len(b.equity))
	copy(curve, b.equity)

	return curve
}

// TotalFees returns all fees paid so far.
func (b *BacktestState) TotalFees() float64 {
	return b.totalFees.InexactFloat64()
}
