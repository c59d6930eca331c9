package handler

import (
	"errors"
	"net/http"

	"watchlist/internal/auth"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Svc *auth.Service
	Log *zap.Logger
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerResp struct {
	Message   string `json:"message"`
	DemoToken string `json:"demoToken,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			writeMessage(w, http.StatusBadRequest, "A valid email and password are required")
		case errors.Is(err, auth.ErrDuplicateEmail):
			writeMessage(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, auth.ErrMailDeliveryFailed):
			writeMessage(w, http.StatusServiceUnavailable, "Verification email could not be sent")
		default:
			h.Log.Error("register failed", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	status := http.StatusOK
	if res.Queued {
		status = http.StatusAccepted
	}
	writeJSON(w, status, registerResp{Message: res.Message, DemoToken: res.DemoToken})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	err := h.Svc.Verify(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			writeMessage(w, http.StatusBadRequest, "Invalid verification token")
			return
		}
		h.Log.Error("verify failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Verification failed")
		return
	}
	writeMessage(w, http.StatusOK, "Email verified! You can now login.")
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string       `json:"token"`
	User  auth.Profile `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		case errors.Is(err, auth.ErrNotVerified):
			writeMessage(w, http.StatusBadRequest, "Please verify your email first")
		default:
			h.Log.Error("login failed", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResp{Token: res.Token, User: res.User})
}
