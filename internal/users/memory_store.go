package users

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore is a process-local store used when no database is configured.
// It enforces the same uniqueness rules as the Postgres schema.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: map[uint64]*User{}}
}

func (s *MemoryStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}

	s.nextID++
	u.ID = s.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	stored := u.clone()
	s.byID[u.ID] = &stored
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Email == email {
			c := u.clone()
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByID(_ context.Context, id uint64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := u.clone()
	return &c, nil
}

func (s *MemoryStore) MarkVerified(_ context.Context, token string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.IsVerified || u.VerificationToken == nil || *u.VerificationToken != token {
			continue
		}
		u.IsVerified = true
		u.VerificationToken = nil
		c := u.clone()
		return &c, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Watchlist(_ context.Context, userID uint64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone([]string(u.Watchlist)), nil
}

func (s *MemoryStore) AddSymbol(_ context.Context, userID uint64, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok || slices.Contains(u.Watchlist, symbol) {
		return nil
	}
	u.Watchlist = append(u.Watchlist, symbol)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u.clone())
	}
	slices.SortFunc(out, func(a, b User) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.byID))
	s.byID = map[uint64]*User{}
	return n, nil
}
