package auth

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDuplicateEmail        = errors.New("email already exists")
	ErrInvalidToken          = errors.New("invalid token")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNotVerified           = errors.New("email not verified")
	ErrMissingToken          = errors.New("missing token")
	ErrExpiredOrBadSignature = errors.New("token expired or bad signature")
	ErrMailDeliveryFailed    = errors.New("verification email delivery failed")
)
