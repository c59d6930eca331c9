package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"watchlist/internal/config"
	"watchlist/internal/mail"
	"watchlist/internal/metrics"
	"watchlist/internal/users"
)

type UserStore interface {
	Create(ctx context.Context, u *users.User) error
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	MarkVerified(ctx context.Context, token string) (*users.User, error)
	Delete(ctx context.Context, id uint64) error
}

// VerificationQueue accepts verification emails for later redelivery.
type VerificationQueue interface {
	EnqueueVerificationEmail(ctx context.Context, userID uint64, email, token string) error
}

type Service struct {
	Store   UserStore
	Mailer  mail.Mailer
	Queue   VerificationQueue
	JWT     *JWT
	Mode    config.Mode
	BaseURL string
	Log     *zap.Logger
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type RegisterResult struct {
	Message   string
	DemoToken string
	Queued    bool
}

type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginResult struct {
	Token string
	User  Profile
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	email := normalizeEmail(in.Email)
	if !validEmail(email) || in.Password == "" || len(in.Password) > maxPasswordBytes {
		return RegisterResult{}, ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = users.DefaultDisplayName(email)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("hash password: %w", err)
	}
	token, err := NewVerificationToken()
	if err != nil {
		return RegisterResult{}, err
	}

	u := &users.User{
		Email:             email,
		PasswordHash:      hash,
		DisplayName:       name,
		VerificationToken: &token,
	}
	if err := s.Store.Create(ctx, u); err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			metrics.RecordAuthEvent("register", "duplicate")
			return RegisterResult{}, ErrDuplicateEmail
		}
		metrics.RecordAuthEvent("register", "error")
		return RegisterResult{}, err
	}
	metrics.RecordAuthEvent("register", "success")
	s.Log.Info("user registered", zap.Uint64("user_id", u.ID), zap.String("email", email))

	sendErr := s.sendVerification(ctx, email, token)
	if sendErr == nil {
		return RegisterResult{Message: "Check your email for verification link!"}, nil
	}
	s.Log.Warn("verification email failed", zap.String("email", email), zap.Error(sendErr))

	if s.Mode == config.ModeDemo {
		demoToken, err := s.JWT.Sign(Identity{UserID: u.ID, Email: u.Email})
		if err != nil {
			return RegisterResult{}, fmt.Errorf("sign demo token: %w", err)
		}
		s.Log.Warn("issued demo session without verification", zap.Uint64("user_id", u.ID))
		return RegisterResult{Message: "Registered! (Email service unavailable)", DemoToken: demoToken}, nil
	}

	if s.Queue != nil {
		err := s.Queue.EnqueueVerificationEmail(ctx, u.ID, email, token)
		if err == nil {
			return RegisterResult{Message: "Registered! Your verification email is on its way.", Queued: true}, nil
		}
		s.Log.Error("enqueue verification email", zap.Uint64("user_id", u.ID), zap.Error(err))
	}

	// Nothing will ever reach the inbox, so release the email for a later attempt.
	if err := s.Store.Delete(ctx, u.ID); err != nil {
		s.Log.Error("roll back unverifiable registration", zap.Uint64("user_id", u.ID), zap.Error(err))
	}
	metrics.RecordAuthEvent("register", "rolled_back")
	return RegisterResult{}, fmt.Errorf("%w: %w", ErrMailDeliveryFailed, sendErr)
}

func (s *Service) sendVerification(ctx context.Context, email, token string) error {
	msg, err := mail.VerificationEmail(email, s.BaseURL, token)
	if err != nil {
		return err
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		metrics.RecordMailDelivery("failed")
		return err
	}
	metrics.RecordMailDelivery("sent")
	return nil
}

// Verify consumes a verification token. A token works at most once.
func (s *Service) Verify(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}

	u, err := s.Store.MarkVerified(ctx, token)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			metrics.RecordAuthEvent("verify", "invalid_token")
			return ErrInvalidToken
		}
		return err
	}
	metrics.RecordAuthEvent("verify", "success")
	s.Log.Info("user verified", zap.Uint64("user_id", u.ID), zap.String("email", u.Email))
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			ComparePassword(dummyHash(), password)
			metrics.RecordAuthEvent("login", "invalid_credentials")
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !ComparePassword(u.PasswordHash, password) {
		metrics.RecordAuthEvent("login", "invalid_credentials")
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.IsVerified {
		metrics.RecordAuthEvent("login", "not_verified")
		return LoginResult{}, ErrNotVerified
	}

	token, err := s.JWT.Sign(Identity{UserID: u.ID, Email: u.Email})
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign session token: %w", err)
	}
	metrics.RecordAuthEvent("login", "success")
	return LoginResult{Token: token, User: Profile{Email: u.Email, Name: u.DisplayName}}, nil
}

func (s *Service) Authenticate(token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrMissingToken
	}
	id, err := s.JWT.Verify(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.ContainsAny(email, " \t\r\n")
}
