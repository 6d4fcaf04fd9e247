package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Action is the directional call of a Signal.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// RiskTier is a qualitative risk label derived from confidence.
type RiskTier string

const (
	RiskTierLow    RiskTier = "Low"
	RiskTierMedium RiskTier = "Medium"
	RiskTierHigh   RiskTier = "High"
)

// Signal is the scorer's recommendation for one instrument.
type Signal struct {
	Symbol string `json:"symbol"`
	Action Action `json:"action"`
	// Confidence is in [50, cap] and never decreases as the winning tally grows.
	Confidence   float64 `json:"confidence"`
	Rationale    string  `json:"rationale"`
	CurrentPrice float64 `json:"current_price"`
	EntryPrice   float64 `json:"entry_price"`
	StopLoss     float64 `json:"stop_loss"`
	TakeProfit   float64 `json:"take_profit"`
	// RiskRewardRatio is None when the bracket leaves no room between entry and stop.
	RiskRewardRatio optional.Option[float64] `json:"risk_reward_ratio"`
	TargetPrice     float64                  `json:"target_price"`
	TimeHorizon     string                   `json:"time_horizon"`
	RiskTier        RiskTier                 `json:"risk_tier"`
	BullishScore    float64                  `json:"bullish_score"`
	BearishScore    float64                  `json:"bearish_score"`
	Indicators      IndicatorSet             `json:"indicators"`
	GeneratedAt     time.Time                `json:"generated_at"`
}
