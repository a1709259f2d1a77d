package config

import (
	"strings"

	apperrors "github.com/arlet-trading/arlet_service/internal/domain/errors"
)

// TradingMode selects the action-space shape consumed by the strategy engine
type TradingMode string

const (
	// TradingModeDiscrete uses a fixed action space
	TradingModeDiscrete TradingMode = "discrete"

	// TradingModeContinuous uses a continuous action space
	TradingModeContinuous TradingMode = "continuous"

	// TradingModeHybrid mixes both strategies
	TradingModeHybrid TradingMode = "hybrid"
)

// DataSource selects which market-data adapter feeds the system
type DataSource string

const (
	// DataSourceCCXT pulls from crypto exchanges via CCXT
	DataSourceCCXT DataSource = "ccxt"

	// DataSourceAlpaca pulls from stock markets via the Alpaca API
	DataSourceAlpaca DataSource = "alpaca"

	// DataSourceYFinance pulls historical data from Yahoo Finance
	DataSourceYFinance DataSource = "yfinance"

	// DataSourceCustomAPI pulls from a custom REST API
	DataSourceCustomAPI DataSource = "custom_api"
)

// ParseTradingMode converts an external string to a TradingMode,
// failing on unrecognized values
func ParseTradingMode(s string) (TradingMode, error) {
	switch TradingMode(strings.ToLower(strings.TrimSpace(s))) {
	case TradingModeDiscrete:
		return TradingModeDiscrete, nil
	case TradingModeContinuous:
		return TradingModeContinuous, nil
	case TradingModeHybrid:
		return TradingModeHybrid, nil
	default:
		return "", apperrors.InvalidField("trading.mode", "must be one of discrete, continuous, hybrid", s)
	}
}

// ParseDataSource converts an external string to a DataSource,
// failing on unrecognized values
func ParseDataSource(s string) (DataSource, error) {
	switch DataSource(strings.ToLower(strings.TrimSpace(s))) {
	case DataSourceCCXT:
		return DataSourceCCXT, nil
	case DataSourceAlpaca:
		return DataSourceAlpaca, nil
	case DataSourceYFinance:
		return DataSourceYFinance, nil
	case DataSourceCustomAPI:
		return DataSourceCustomAPI, nil
	default:
		return "", apperrors.InvalidField("data.source", "must be one of ccxt, alpaca, yfinance, custom_api", s)
	}
}
