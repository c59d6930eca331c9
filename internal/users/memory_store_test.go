package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, &User{Email: "a@x.com"}))
	require.ErrorIs(t, s.Create(ctx, &User{Email: "a@x.com"}), ErrDuplicateEmail)
}

func TestMemoryStoreVerificationIsSingleUse(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	tok := "abc"
	u := &User{Email: "a@x.com", VerificationToken: &tok}
	require.NoError(t, s.Create(ctx, u))

	verified, err := s.MarkVerified(ctx, "abc")
	require.NoError(t, err)
	require.True(t, verified.IsVerified)
	require.Nil(t, verified.VerificationToken)

	_, err = s.MarkVerified(ctx, "abc")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreAddSymbolDedupes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := &User{Email: "a@x.com"}
	require.NoError(t, s.Create(ctx, u))

	require.NoError(t, s.AddSymbol(ctx, u.ID, "ETH"))
	require.NoError(t, s.AddSymbol(ctx, u.ID, "ETH"))
	require.NoError(t, s.AddSymbol(ctx, u.ID, "BTC"))
	require.NoError(t, s.AddSymbol(ctx, 999, "BTC"))

	list, err := s.Watchlist(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"ETH", "BTC"}, list)

	_, err = s.Watchlist(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := &User{Email: "a@x.com"}
	require.NoError(t, s.Create(ctx, u))
	require.NoError(t, s.AddSymbol(ctx, u.ID, "SOL"))

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Watchlist[0] = "XXX"

	list, err := s.Watchlist(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"SOL"}, list)
}

func TestMemoryStoreListAndDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Create(ctx, &User{Email: "b@x.com"}))
	require.NoError(t, s.Create(ctx, &User{Email: "a@x.com"}))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "b@x.com", all[0].Email)

	n, err := s.DeleteAll(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	all, err = s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestMemoryStoreDeleteReleasesEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := &User{Email: "a@x.com"}
	require.NoError(t, s.Create(ctx, u))

	require.NoError(t, s.Delete(ctx, u.ID))
	require.ErrorIs(t, s.Delete(ctx, u.ID), ErrNotFound)

	_, err := s.FindByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Create(ctx, &User{Email: "a@x.com"}))
}

func TestDefaultDisplayName(t *testing.T) {
	require.Equal(t, "alice", DefaultDisplayName("alice@example.com"))
	require.Equal(t, "bob", DefaultDisplayName("bob"))
}
