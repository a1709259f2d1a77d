package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arlet-trading/arlet_service/internal/domain/entities"
	apperrors "github.com/arlet-trading/arlet_service/internal/domain/errors"
)

func newTestRepository() *TradingRepository {
	return NewTradingRepository(nil, "arlet_trading", zap.NewNop())
}

func TestExecuteMapsOpenCircuit(t *testing.T) {
	repo := newTestRepository()
	failing := func() (interface{}, error) { return nil, errors.New("firestore down") }

	// Drive the breaker past its failure threshold
	for i := 0; i < breakerMaxFailures; i++ {
		_, err := repo.execute(failing)
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrBackendUnavailable)
	}

	_, err := repo.execute(failing)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBackendUnavailable)
}

func TestExecuteNotFoundDoesNotTrip(t *testing.T) {
	repo := newTestRepository()
	missing := func() (interface{}, error) { return nil, apperrors.ErrNotFound }

	for i := 0; i < breakerMaxFailures*2; i++ {
		_, err := repo.execute(missing)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}

	// The circuit must still be closed for real operations
	result, err := repo.execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestTradeDocRoundTrip(t *testing.T) {
	trade := &entities.TradeRecord{
		ID:          uuid.New(),
		Symbol:      "BTC/USDT",
		Side:        entities.TradeSideBuy,
		Quantity:    decimal.RequireFromString("0.25"),
		Price:       decimal.RequireFromString("43125.50"),
		Cost:        decimal.RequireFromString("10.78"),
		TradingMode: "hybrid",
		Episode:     42,
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	doc := tradeDoc(trade)
	assert.Equal(t, recordTypeTrade, doc["record_type"])

	got, err := tradeFromDoc(doc)
	require.NoError(t, err)

	assert.Equal(t, trade.ID, got.ID)
	assert.Equal(t, trade.Symbol, got.Symbol)
	assert.Equal(t, trade.Side, got.Side)
	assert.True(t, trade.Quantity.Equal(got.Quantity))
	assert.True(t, trade.Price.Equal(got.Price))
	assert.True(t, trade.Cost.Equal(got.Cost))
	assert.Equal(t, trade.TradingMode, got.TradingMode)
	assert.Equal(t, trade.Episode, got.Episode)
	assert.True(t, trade.CreatedAt.Equal(got.CreatedAt))
}

func TestEpisodeDocRoundTrip(t *testing.T) {
	episode := &entities.EpisodeResult{
		ID:           uuid.New(),
		Episode:      7,
		Steps:        1000,
		TotalReward:  152.75,
		FinalBalance: decimal.RequireFromString("10984.12"),
		MaxDrawdown:  0.08,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	doc := episodeDoc(episode)
	assert.Equal(t, recordTypeEpisode, doc["record_type"])

	got, err := episodeFromDoc(doc)
	require.NoError(t, err)

	assert.Equal(t, episode.ID, got.ID)
	assert.Equal(t, episode.Episode, got.Episode)
	assert.Equal(t, episode.Steps, got.Steps)
	assert.Equal(t, episode.TotalReward, got.TotalReward)
	assert.True(t, episode.FinalBalance.Equal(got.FinalBalance))
	assert.Equal(t, episode.MaxDrawdown, got.MaxDrawdown)
}

func TestTradeFromDocRejectsBadValues(t *testing.T) {
	doc := map[string]interface{}{
		"id":       "not-a-uuid",
		"quantity": "0.25",
		"price":    "100",
		"cost":     "0.1",
	}
	_, err := tradeFromDoc(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trade id")

	doc["id"] = uuid.NewString()
	doc["quantity"] = "lots"
	_, err = tradeFromDoc(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trade quantity")
}
