package types

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/moznion/go-optional"
)

// ExitReason records why a trade was closed.
type ExitReason string

const (
	ExitReasonSignal    ExitReason = "signal"
	ExitReasonStop      ExitReason = "stop"
	ExitReasonEndOfData ExitReason = "end_of_data"
)

// Trade is one simulated long position. Exit fields and PnL stay None while the
// position is open.
type Trade struct {
	ID         string    `json:"id"`
	EntryIndex int       `json:"entry_index"`
	EntryTime  time.Time `json:"entry_time"`
	EntryPrice float64   `json:"entry_price"`
	Quantity   float64   `json:"quantity"`

	ExitIndex optional.Option[int]       `json:"exit_index"`
	ExitTime  optional.Option[time.Time] `json:"exit_time"`
	ExitPrice optional.Option[float64]   `json:"exit_price"`
	// PnL is the realized profit after entry and exit fees.
	PnL        optional.Option[float64] `json:"pnl"`
	Fees       float64                  `json:"fees"`
	ExitReason ExitReason               `json:"exit_reason,omitempty"`
}

// IsOpen reports whether the trade has not been closed yet.
func (t Trade) IsOpen() bool {
	return t.ExitIndex.IsNone()
}

// TradeRecord is the flat CSV form of a Trade.
type TradeRecord struct {
	ID         string  `csv:"id"`
	EntryIndex int     `csv:"entry_index"`
	EntryTime  string  `csv:"entry_time"`
	EntryPrice float64 `csv:"entry_price"`
	Quantity   float64 `csv:"quantity"`
	ExitIndex  int     `csv:"exit_index"`
	ExitTime   string  `csv:"exit_time"`
	ExitPrice  float64 `csv:"exit_price"`
	PnL        float64 `csv:"pnl"`
	Fees       float64 `csv:"fees"`
	ExitReason string  `csv:"exit_reason"`
}

// Record flattens the trade. An open trade has exit index -1 and empty exit fields.
func (t Trade) Record() TradeRecord {
	record := TradeRecord{
		ID:         t.ID,
		EntryIndex: t.EntryIndex,
		EntryTime:  t.EntryTime.Format(time.RFC3339),
		EntryPrice: t.EntryPrice,
		Quantity:   t.Quantity,
		ExitIndex:  t.ExitIndex.TakeOr(-1),
		ExitPrice:  t.ExitPrice.TakeOr(0),
		PnL:        t.PnL.TakeOr(0),
		Fees:       t.Fees,
		ExitReason: string(t.ExitReason),
	}

	if t.ExitTime.IsSome() {
		record.ExitTime = t.ExitTime.Unwrap().Format(time.RFC3339)
	}

	return record
}

// WriteTrades writes the trades to path as CSV.
func WriteTrades(path string, trades []Trade) error {
	records := make([]TradeRecord, len(trades))
	for i, trade := range trades {
		records[i] = trade.Record()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trades file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return fmt.Errorf("failed to write trades to CSV: %w", err)
	}

	return nil
}
