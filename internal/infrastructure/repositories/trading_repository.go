package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/arlet-trading/arlet_service/internal/domain/entities"
	apperrors "github.com/arlet-trading/arlet_service/internal/domain/errors"
)

const (
	recordTypeTrade   = "trade"
	recordTypeEpisode = "episode"

	breakerTimeout     = 30 * time.Second
	breakerInterval    = 60 * time.Second
	breakerMaxFailures = 5
)

// TradingRepository persists trade and episode records to a single Firestore
// collection. Writes go through a circuit breaker so a flapping backend
// fails fast instead of stalling the training loop; there are no retries.
type TradingRepository struct {
	client     *firestore.Client
	collection string
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewTradingRepository creates a repository over an open Firestore client
func NewTradingRepository(client *firestore.Client, collection string, logger *zap.Logger) *TradingRepository {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "firestore-trading",
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailures
		},
		// A missing record is an answer, not a backend failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperrors.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("firestore circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &TradingRepository{
		client:     client,
		collection: collection,
		breaker:    breaker,
		logger:     logger,
	}
}

// SaveTrade persists an executed trade. A zero ID or timestamp is filled in.
func (r *TradingRepository) SaveTrade(ctx context.Context, trade *entities.TradeRecord) error {
	if trade.ID == uuid.Nil {
		trade.ID = uuid.New()
	}
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = time.Now().UTC()
	}

	doc := tradeDoc(trade)
	_, err := r.execute(func() (interface{}, error) {
		return r.client.Collection(r.collection).Doc(docID(recordTypeTrade, trade.ID.String())).Set(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to save trade %s: %w", trade.ID, err)
	}

	r.logger.Debug("trade persisted",
		zap.String("id", trade.ID.String()),
		zap.String("symbol", trade.Symbol),
		zap.String("side", string(trade.Side)))
	return nil
}

// SaveEpisode persists a completed training episode summary
func (r *TradingRepository) SaveEpisode(ctx context.Context, episode *entities.EpisodeResult) error {
	if episode.ID == uuid.Nil {
		episode.ID = uuid.New()
	}
	if episode.CreatedAt.IsZero() {
		episode.CreatedAt = time.Now().UTC()
	}

	doc := episodeDoc(episode)
	_, err := r.execute(func() (interface{}, error) {
		return r.client.Collection(r.collection).Doc(docID(recordTypeEpisode, episode.ID.String())).Set(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to save episode %d: %w", episode.Episode, err)
	}

	r.logger.Debug("episode persisted",
		zap.String("id", episode.ID.String()),
		zap.Int("episode", episode.Episode))
	return nil
}

// GetEpisode fetches the summary for a given episode number
func (r *TradingRepository) GetEpisode(ctx context.Context, episode int) (*entities.EpisodeResult, error) {
	result, err := r.execute(func() (interface{}, error) {
		iter := r.client.Collection(r.collection).
			Where("record_type", "==", recordTypeEpisode).
			Where("episode", "==", episode).
			Limit(1).
			Documents(ctx)
		defer iter.Stop()

		doc, err := iter.Next()
		if err == iterator.Done {
			return nil, apperrors.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return doc.Data(), nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("episode %d: %w", episode, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get episode %d: %w", episode, err)
	}

	return episodeFromDoc(result.(map[string]interface{}))
}

// ListRecentTrades returns up to limit trades, newest first
func (r *TradingRepository) ListRecentTrades(ctx context.Context, limit int) ([]*entities.TradeRecord, error) {
	result, err := r.execute(func() (interface{}, error) {
		iter := r.client.Collection(r.collection).
			Where("record_type", "==", recordTypeTrade).
			OrderBy("created_at", firestore.Desc).
			Limit(limit).
			Documents(ctx)
		defer iter.Stop()

		var docs []map[string]interface{}
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc.Data())
		}
		return docs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}

	docs := result.([]map[string]interface{})
	trades := make([]*entities.TradeRecord, 0, len(docs))
	for _, doc := range docs {
		trade, err := tradeFromDoc(doc)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// execute runs an operation through the circuit breaker, mapping breaker
// rejections to a typed backend error
func (r *TradingRepository) execute(op func() (interface{}, error)) (interface{}, error) {
	result, err := r.breaker.Execute(op)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, apperrors.BackendUnavailable("firestore circuit open", err)
	}
	return result, err
}

func docID(recordType, id string) string {
	return fmt.Sprintf("%s_%s", recordType, id)
}

// Firestore cannot store decimal.Decimal directly, so money fields travel as
// strings and are parsed back on read.
func tradeDoc(trade *entities.TradeRecord) map[string]interface{} {
	return map[string]interface{}{
		"record_type":  recordTypeTrade,
		"id":           trade.ID.String(),
		"symbol":       trade.Symbol,
		"side":         string(trade.Side),
		"quantity":     trade.Quantity.String(),
		"price":        trade.Price.String(),
		"cost":         trade.Cost.String(),
		"trading_mode": trade.TradingMode,
		"episode":      trade.Episode,
		"created_at":   trade.CreatedAt,
	}
}

func tradeFromDoc(data map[string]interface{}) (*entities.TradeRecord, error) {
	id, err := uuid.Parse(stringField(data, "id"))
	if err != nil {
		return nil, fmt.Errorf("invalid trade id: %w", err)
	}

	quantity, err := decimal.NewFromString(stringField(data, "quantity"))
	if err != nil {
		return nil, fmt.Errorf("invalid trade quantity: %w", err)
	}
	price, err := decimal.NewFromString(stringField(data, "price"))
	if err != nil {
		return nil, fmt.Errorf("invalid trade price: %w", err)
	}
	cost, err := decimal.NewFromString(stringField(data, "cost"))
	if err != nil {
		return nil, fmt.Errorf("invalid trade cost: %w", err)
	}

	trade := &entities.TradeRecord{
		ID:          id,
		Symbol:      stringField(data, "symbol"),
		Side:        entities.TradeSide(stringField(data, "side")),
		Quantity:    quantity,
		Price:       price,
		Cost:        cost,
		TradingMode: stringField(data, "trading_mode"),
		Episode:     intField(data, "episode"),
	}
	if ts, ok := data["created_at"].(time.Time); ok {
		trade.CreatedAt = ts
	}
	return trade, nil
}

func episodeDoc(episode *entities.EpisodeResult) map[string]interface{} {
	return map[string]interface{}{
		"record_type":   recordTypeEpisode,
		"id":            episode.ID.String(),
		"episode":       episode.Episode,
		"steps":         episode.Steps,
		"total_reward":  episode.TotalReward,
		"final_balance": episode.FinalBalance.String(),
		"max_drawdown":  episode.MaxDrawdown,
		"created_at":    episode.CreatedAt,
	}
}

func episodeFromDoc(data map[string]interface{}) (*entities.EpisodeResult, error) {
	id, err := uuid.Parse(stringField(data, "id"))
	if err != nil {
		return nil, fmt.Errorf("invalid episode id: %w", err)
	}

	balance, err := decimal.NewFromString(stringField(data, "final_balance"))
	if err != nil {
		return nil, fmt.Errorf("invalid episode balance: %w", err)
	}

	result := &entities.EpisodeResult{
		ID:           id,
		Episode:      intField(data, "episode"),
		Steps:        intField(data, "steps"),
		TotalReward:  floatField(data, "total_reward"),
		FinalBalance: balance,
		MaxDrawdown:  floatField(data, "max_drawdown"),
	}
	if ts, ok := data["created_at"].(time.Time); ok {
		result.CreatedAt = ts
	}
	return result, nil
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

// Firestore decodes integral fields as int64
func intField(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func floatField(data map[string]interface{}, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}
