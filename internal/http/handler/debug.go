package handler

import (
	"context"
	"fmt"
	"net/http"

	"watchlist/internal/users"

	"go.uber.org/zap"
)

// UserAdmin is the bulk surface behind the demo-only debug routes.
type UserAdmin interface {
	List(ctx context.Context) ([]users.User, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type DebugHandler struct {
	Users UserAdmin
	Log   *zap.Logger
}

type debugUserDTO struct {
	Email          string `json:"email"`
	Verified       bool   `json:"verified"`
	WatchlistCount int    `json:"watchlistCount"`
}

type debugUsersResp struct {
	Count int            `json:"count"`
	Users []debugUserDTO `json:"users"`
}

func (h *DebugHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	all, err := h.Users.List(r.Context())
	if err != nil {
		h.Log.Warn("debug list users failed", zap.Error(err))
		writeMessage(w, http.StatusServiceUnavailable, "User store unavailable")
		return
	}

	out := make([]debugUserDTO, 0, len(all))
	for _, u := range all {
		out = append(out, debugUserDTO{
			Email:          u.Email,
			Verified:       u.IsVerified,
			WatchlistCount: len(u.Watchlist),
		})
	}
	writeJSON(w, http.StatusOK, debugUsersResp{Count: len(out), Users: out})
}

func (h *DebugHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.Users.DeleteAll(r.Context())
	if err != nil {
		h.Log.Warn("debug clear failed", zap.Error(err))
		writeMessage(w, http.StatusServiceUnavailable, "User store unavailable")
		return
	}
	h.Log.Warn("all users deleted", zap.Int64("count", n))
	writeMessage(w, http.StatusOK, fmt.Sprintf("Deleted %d users", n))
}
