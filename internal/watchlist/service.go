package watchlist

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"watchlist/internal/config"
	"watchlist/internal/metrics"
	"watchlist/internal/users"
)

var ErrStoreUnavailable = errors.New("watchlist store unavailable")

type Store interface {
	Watchlist(ctx context.Context, userID uint64) ([]string, error)
	AddSymbol(ctx context.Context, userID uint64, symbol string) error
}

type Service struct {
	Store Store
	Mode  config.Mode
	Log   *zap.Logger
}

// Get never returns nil. Users that no longer exist have an empty list.
func (s *Service) Get(ctx context.Context, userID uint64) ([]string, error) {
	list, err := s.Store.Watchlist(ctx, userID)
	switch {
	case err == nil:
		return dedupe(list), nil
	case errors.Is(err, users.ErrNotFound):
		return []string{}, nil
	case s.Mode == config.ModeDemo:
		s.Log.Warn("watchlist read failed, serving empty list", zap.Uint64("user_id", userID), zap.Error(err))
		return []string{}, nil
	default:
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}

// Add inserts symbol into the set and returns the normalized form.
func (s *Service) Add(ctx context.Context, userID uint64, raw string) (string, error) {
	symbol, err := NormalizeSymbol(raw)
	if err != nil {
		metrics.RecordWatchlistAdd("invalid")
		return "", err
	}

	if err := s.Store.AddSymbol(ctx, userID, symbol); err != nil {
		if s.Mode != config.ModeDemo {
			metrics.RecordWatchlistAdd("error")
			return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		metrics.RecordWatchlistAdd("dropped")
		s.Log.Warn("watchlist write failed, reporting success", zap.Uint64("user_id", userID), zap.String("symbol", symbol), zap.Error(err))
		return symbol, nil
	}
	metrics.RecordWatchlistAdd("added")
	return symbol, nil
}
