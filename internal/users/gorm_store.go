package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// GormStore keeps users in Postgres. Every mutation is a single statement so the
// database constraints are the only consistency mechanism.
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) Create(ctx context.Context, u *User) error {
	if u.Watchlist == nil {
		u.Watchlist = pq.StringArray{}
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return storeErr("create user", err)
	}
	return nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("find user by email", err)
	}
	return &u, nil
}

func (s *GormStore) FindByID(ctx context.Context, id uint64) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("find user by id", err)
	}
	return &u, nil
}

// MarkVerified flips the account matching token to verified and clears the token.
func (s *GormStore) MarkVerified(ctx context.Context, token string) (*User, error) {
	var u User
	res := s.DB.WithContext(ctx).Raw(`
update users
set is_verified = true, verification_token = null
where verification_token = ? and is_verified = false
returning *`, token).Scan(&u)
	if res.Error != nil {
		return nil, storeErr("mark verified", res.Error)
	}
	if res.RowsAffected == 0 || u.ID == 0 {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *GormStore) Watchlist(ctx context.Context, userID uint64) ([]string, error) {
	var u User
	err := s.DB.WithContext(ctx).Select("id", "watchlist").Where("id = ?", userID).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("read watchlist", err)
	}
	return []string(u.Watchlist), nil
}

// AddSymbol appends symbol unless it is already present. Unknown users are a no-op.
func (s *GormStore) AddSymbol(ctx context.Context, userID uint64, symbol string) error {
	err := s.DB.WithContext(ctx).Exec(`
update users
set watchlist = array_append(watchlist, ?)
where id = ? and not (? = any(watchlist))`, symbol, userID, symbol).Error
	if err != nil {
		return storeErr("add symbol", err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, storeErr("list users", err)
	}
	return out, nil
}

func (s *GormStore) DeleteAll(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&User{})
	if res.Error != nil {
		return 0, storeErr("delete users", res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes a single account. Unknown ids return ErrNotFound.
func (s *GormStore) Delete(ctx context.Context, id uint64) error {
	res := s.DB.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return storeErr("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
