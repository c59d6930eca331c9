package users

import (
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrStoreUnavailable = errors.New("user store unavailable")
)

// User is the only durable entity. Watchlist holds uppercase, deduplicated symbols.
type User struct {
	ID                uint64         `gorm:"primaryKey"`
	Email             string         `gorm:"uniqueIndex;not null"`
	PasswordHash      string         `gorm:"not null"`
	DisplayName       string         `gorm:"not null;default:''"`
	Watchlist         pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	IsVerified        bool           `gorm:"not null;default:false"`
	VerificationToken *string        `gorm:"type:text"`
	CreatedAt         time.Time      `gorm:"not null;default:now();<-:create"`
}

// DefaultDisplayName returns the local part of an email address.
func DefaultDisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func (u User) clone() User {
	c := u
	c.Watchlist = append(pq.StringArray{}, u.Watchlist...)
	if u.VerificationToken != nil {
		tok := *u.VerificationToken
		c.VerificationToken = &tok
	}
	return c
}
