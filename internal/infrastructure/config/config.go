// Package config holds the process-wide ARLET configuration: trading
// parameters, RL hyperparameters, data-source selection, risk limits and
// Firestore settings. The configuration is built once at startup and is
// read-only afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/arlet-trading/arlet_service/internal/domain/errors"
)

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Trading     TradingConfig  `mapstructure:"trading"`
	RL          RLConfig       `mapstructure:"rl"`
	Data        DataConfig     `mapstructure:"data"`
	Training    TrainingConfig `mapstructure:"training"`
	Risk        RiskConfig     `mapstructure:"risk"`
	Firebase    FirebaseConfig `mapstructure:"firebase"`
	Paths       PathConfig     `mapstructure:"paths"`
}

// TradingConfig contains trading parameters
type TradingConfig struct {
	Mode            TradingMode `mapstructure:"mode"`
	InitialBalance  float64     `mapstructure:"initial_balance"`
	MaxPositionSize float64     `mapstructure:"max_position_size"` // fraction of portfolio per trade
	TransactionCost float64     `mapstructure:"transaction_cost"`  // fraction per transaction
}

// RLConfig contains reinforcement learning hyperparameters
type RLConfig struct {
	LearningRate   float64 `mapstructure:"learning_rate"`
	DiscountFactor float64 `mapstructure:"discount_factor"`
	BatchSize      int     `mapstructure:"batch_size"`
	MemorySize     int     `mapstructure:"memory_size"`
}

// DataConfig contains market-data selection parameters
type DataConfig struct {
	Source         DataSource `mapstructure:"source"`
	Symbols        []string   `mapstructure:"symbols"`
	Timeframe      string     `mapstructure:"timeframe"`
	LookbackWindow int        `mapstructure:"lookback_window"`
}

// TrainingConfig contains training-loop parameters
type TrainingConfig struct {
	TotalEpisodes   int `mapstructure:"total_episodes"`
	StepsPerEpisode int `mapstructure:"steps_per_episode"`
	EvalFrequency   int `mapstructure:"eval_frequency"`
}

// RiskConfig contains risk management limits, documented as fractions
type RiskConfig struct {
	StopLoss     float64 `mapstructure:"stop_loss"`
	MaxDrawdown  float64 `mapstructure:"max_drawdown"`
	RiskFreeRate float64 `mapstructure:"risk_free_rate"` // annual
}

// FirebaseConfig contains Firestore backend settings. ProjectID is populated
// only from the environment; an empty value means local-only mode.
type FirebaseConfig struct {
	ProjectID  string `mapstructure:"project_id"`
	Collection string `mapstructure:"collection"`
}

// PathConfig contains filesystem paths used by external collaborators
type PathConfig struct {
	Checkpoints string `mapstructure:"checkpoints"`
	Logs        string `mapstructure:"logs"`
}

// Option overrides a configuration value at construction time
type Option func(v *viper.Viper)

// WithValue sets an arbitrary configuration key before validation
func WithValue(key string, value interface{}) Option {
	return func(v *viper.Viper) {
		v.Set(key, value)
	}
}

// WithTradingMode sets the trading mode
func WithTradingMode(mode TradingMode) Option {
	return WithValue("trading.mode", string(mode))
}

// WithDataSource sets the market-data source
func WithDataSource(source DataSource) Option {
	return WithValue("data.source", string(source))
}

// Load builds the configuration from defaults, an optional config file,
// construction-time overrides and environment variables, then validates it.
// A validation failure returns a ConfigError naming the offending field; no
// partially-valid configuration is ever returned. Load performs no logging
// setup and opens no connections.
func Load(opts ...Option) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	// Read from config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for _, opt := range opts {
		opt(v)
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	overrideFromEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Normalize enum fields, rejecting unknown values
	mode, err := ParseTradingMode(string(config.Trading.Mode))
	if err != nil {
		return nil, err
	}
	config.Trading.Mode = mode

	source, err := ParseDataSource(string(config.Data.Source))
	if err != nil {
		return nil, err
	}
	config.Data.Source = source

	// Validation runs after the environment overrides so an override value
	// is held to the same ranges as a constructor argument.
	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	// Trading defaults
	v.SetDefault("trading.mode", string(TradingModeHybrid))
	v.SetDefault("trading.initial_balance", 10000.0)
	v.SetDefault("trading.max_position_size", 0.1) // 10% of portfolio per trade
	v.SetDefault("trading.transaction_cost", 0.001)

	// RL defaults
	v.SetDefault("rl.learning_rate", 0.0003)
	v.SetDefault("rl.discount_factor", 0.99)
	v.SetDefault("rl.batch_size", 64)
	v.SetDefault("rl.memory_size", 100000)

	// Data defaults
	v.SetDefault("data.source", string(DataSourceCCXT))
	v.SetDefault("data.symbols", []string{"BTC/USDT", "ETH/USDT"})
	v.SetDefault("data.timeframe", "1h")
	v.SetDefault("data.lookback_window", 50)

	// Training defaults
	v.SetDefault("training.total_episodes", 1000)
	v.SetDefault("training.steps_per_episode", 1000)
	v.SetDefault("training.eval_frequency", 50)

	// Risk defaults
	v.SetDefault("risk.stop_loss", 0.05)     // 5% max loss per trade
	v.SetDefault("risk.max_drawdown", 0.20)  // 20% max portfolio drawdown
	v.SetDefault("risk.risk_free_rate", 0.02)

	// Firebase defaults
	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.collection", "arlet_trading")

	// Path defaults
	v.SetDefault("paths.checkpoints", "./checkpoints/")
	v.SetDefault("paths.logs", "./logs/")
}

func overrideFromEnv(v *viper.Viper) {
	// Initial balance: only a parseable float overrides the configured value
	if balance := os.Getenv("ARLET_INITIAL_BALANCE"); balance != "" {
		if b, err := strconv.ParseFloat(balance, 64); err == nil {
			v.Set("trading.initial_balance", b)
		}
	}

	if mode := os.Getenv("ARLET_TRADING_MODE"); mode != "" {
		v.Set("trading.mode", mode)
	}

	if source := os.Getenv("ARLET_DATA_SOURCE"); source != "" {
		v.Set("data.source", source)
	}

	if symbols := os.Getenv("ARLET_SYMBOLS"); symbols != "" {
		parts := strings.Split(symbols, ",")
		var parsed []string
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				parsed = append(parsed, strings.ToUpper(trimmed))
			}
		}
		if len(parsed) > 0 {
			v.Set("data.symbols", parsed)
		}
	}

	if level := os.Getenv("ARLET_LOG_LEVEL"); level != "" {
		v.Set("log_level", level)
	}

	// Firebase project id comes only from the environment; absence simply
	// leaves the backend disabled
	if projectID := os.Getenv("FIREBASE_PROJECT_ID"); projectID != "" {
		v.Set("firebase.project_id", projectID)
	}

	if collection := os.Getenv("FIRESTORE_COLLECTION"); collection != "" {
		v.Set("firebase.collection", collection)
	}
}

func validate(config *Config) error {
	if config.Trading.InitialBalance <= 0 {
		return apperrors.InvalidField("trading.initial_balance", "must be positive", config.Trading.InitialBalance)
	}

	if config.Trading.MaxPositionSize <= 0 || config.Trading.MaxPositionSize > 1 {
		return apperrors.InvalidField("trading.max_position_size", "must be between 0 (exclusive) and 1 (inclusive)", config.Trading.MaxPositionSize)
	}

	if config.RL.LearningRate <= 0 {
		return apperrors.InvalidField("rl.learning_rate", "must be positive", config.RL.LearningRate)
	}

	if config.RL.DiscountFactor < 0 || config.RL.DiscountFactor > 1 {
		return apperrors.InvalidField("rl.discount_factor", "must be between 0 and 1", config.RL.DiscountFactor)
	}

	return nil
}
