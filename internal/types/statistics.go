package types

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// UnboundedProfitFactor is reported when there are winning trades but no losing ones.
const UnboundedProfitFactor = math.MaxFloat64

// EquityPoint is the account value after one bar.
type EquityPoint struct {
	Index  int       `yaml:"index" json:"index" csv:"index"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Equity float64   `yaml:"equity" json:"equity" csv:"equity"`
}

// Statistics are the performance metrics of a completed run.
type Statistics struct {
	// Total return as a fraction. (final / initial) - 1
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// Annualized return (CAGR) as a fraction, based on calendar days elapsed
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualized_return"`
	SharpeRatio      float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// Largest peak to trough decline of the equity curve as a fraction
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// Fraction of closed trades with positive PnL
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// Gross profit divided by gross loss. UnboundedProfitFactor when there are no losses.
	ProfitFactor          float64 `yaml:"profit_factor" json:"profit_factor"`
	NumberOfTrades        int     `yaml:"number_of_trades" json:"number_of_trades"`
	NumberOfWinningTrades int     `yaml:"number_of_winning_trades" json:"number_of_winning_trades"`
	NumberOfLosingTrades  int     `yaml:"number_of_losing_trades" json:"number_of_losing_trades"`
	InitialCapital        float64 `yaml:"initial_capital" json:"initial_capital"`
	FinalEquity           float64 `yaml:"final_equity" json:"final_equity"`
	TotalPnL              float64 `yaml:"total_pnl" json:"total_pnl"`
	TotalFees             float64 `yaml:"total_fees" json:"total_fees"`
	// Return of holding the instrument from the first to the last close
	BuyAndHoldReturn float64 `yaml:"buy_and_hold_return" json:"buy_and_hold_return"`
}

// HasUnboundedProfitFactor reports whether the profit factor is the no-loss sentinel.
func (s Statistics) HasUnboundedProfitFactor() bool {
	return s.ProfitFactor == UnboundedProfitFactor
}

// BacktestResult is the output of one simulation run.
type BacktestResult struct {
	ID          string        `yaml:"id" json:"id"`
	Strategy    string        `yaml:"strategy" json:"strategy"`
	Symbol      string        `yaml:"symbol" json:"symbol"`
	StartTime   time.Time     `yaml:"start_time" json:"start_time"`
	EndTime     time.Time     `yaml:"end_time" json:"end_time"`
	Trades      []Trade       `yaml:"-" json:"trades"`
	EquityCurve []EquityPoint `yaml:"-" json:"equity_curve"`
	Statistics  Statistics    `yaml:"statistics" json:"statistics"`
}

// WriteBacktestStats writes the run summary (without trades and equity curve) to path as YAML.
func WriteBacktestStats(path string, result BacktestResult) error {
	// Marshal the struct to YAML
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest stats to YAML: %w", err)
	}

	// Write the YAML data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest stats to file: %w", err)
	}

	return nil
}

// WriteEquityCurve writes the equity curve to path as CSV.
func WriteEquityCurve(path string, curve []EquityPoint) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create equity curve file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&curve, file); err != nil {
		return fmt.Errorf("failed to write equity curve to CSV: %w", err)
	}

	return nil
}
