package watchlist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"watchlist/internal/config"
	"watchlist/internal/users"
)

type brokenStore struct{}

func (brokenStore) Watchlist(context.Context, uint64) ([]string, error) {
	return nil, errors.New("connection reset")
}

func (brokenStore) AddSymbol(context.Context, uint64, string) error {
	return errors.New("connection reset")
}

func newUser(t *testing.T, store *users.MemoryStore) uint64 {
	t.Helper()
	u := &users.User{Email: "a@x.com"}
	require.NoError(t, store.Create(context.Background(), u))
	return u.ID
}

func TestAddNormalizesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := users.NewMemoryStore()
	svc := &Service{Store: store, Mode: config.ModeStrict, Log: zap.NewNop()}
	uid := newUser(t, store)

	sym, err := svc.Add(ctx, uid, "btc")
	require.NoError(t, err)
	require.Equal(t, "BTC", sym)

	_, err = svc.Add(ctx, uid, " BTC ")
	require.NoError(t, err)

	list, err := svc.Get(ctx, uid)
	require.NoError(t, err)
	require.Equal(t, []string{"BTC"}, list)
}

func TestGetEmptyForNewAndMissingUsers(t *testing.T) {
	ctx := context.Background()
	store := users.NewMemoryStore()
	svc := &Service{Store: store, Mode: config.ModeStrict, Log: zap.NewNop()}
	uid := newUser(t, store)

	list, err := svc.Get(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	list, err = svc.Get(ctx, 12345)
	require.NoError(t, err)
	require.Equal(t, []string{}, list)
}

func TestAddRejectsInvalidSymbol(t *testing.T) {
	svc := &Service{Store: users.NewMemoryStore(), Mode: config.ModeStrict, Log: zap.NewNop()}

	_, err := svc.Add(context.Background(), 1, "  ")
	require.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestStoreFailureStrictMode(t *testing.T) {
	svc := &Service{Store: brokenStore{}, Mode: config.ModeStrict, Log: zap.NewNop()}

	_, err := svc.Get(context.Background(), 1)
	require.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = svc.Add(context.Background(), 1, "eth")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestStoreFailureDemoMode(t *testing.T) {
	svc := &Service{Store: brokenStore{}, Mode: config.ModeDemo, Log: zap.NewNop()}

	list, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, list)

	sym, err := svc.Add(context.Background(), 1, "eth")
	require.NoError(t, err)
	require.Equal(t, "ETH", sym)
}

func TestNormalizeSymbol(t *testing.T) {
	cases := map[string]string{
		"btc":    "BTC",
		" Eth ":  "ETH",
		"brk.b":  "BRK.B",
		"usdc-e": "USDC-E",
		"1inch":  "1INCH",
	}
	for in, want := range cases {
		got, err := NormalizeSymbol(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	for _, bad := range []string{"", "  ", "$BTC", "B TC", ".BTC", "ABCDEFGHIJKLMNOPQRSTU"} {
		_, err := NormalizeSymbol(bad)
		require.ErrorIs(t, err, ErrInvalidSymbol, bad)
	}
}
