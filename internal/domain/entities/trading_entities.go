package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeSide represents the direction of an executed trade
type TradeSide string

const (
	// TradeSideBuy represents a buy execution
	TradeSideBuy TradeSide = "buy"

	// TradeSideSell represents a sell execution
	TradeSideSell TradeSide = "sell"
)

// TradeRecord is a single executed trade persisted to the trading collection
type TradeRecord struct {
	ID          uuid.UUID
	Symbol      string
	Side        TradeSide
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Cost        decimal.Decimal // transaction cost charged, in quote currency
	TradingMode string
	Episode     int
	CreatedAt   time.Time
}

// EpisodeResult summarizes one completed training episode
type EpisodeResult struct {
	ID           uuid.UUID
	Episode      int
	Steps        int
	TotalReward  float64
	FinalBalance decimal.Decimal
	MaxDrawdown  float64 // fraction of peak balance
	CreatedAt    time.Time
}
