package handler

import (
	"errors"
	"net/http"

	"watchlist/internal/auth"
	"watchlist/internal/watchlist"

	"go.uber.org/zap"
)

type WatchlistHandler struct {
	Svc *watchlist.Service
	Log *zap.Logger
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	list, err := h.Svc.Get(r.Context(), id.UserID)
	if err != nil {
		h.Log.Error("watchlist read failed", zap.Uint64("user_id", id.UserID), zap.Error(err))
		writeMessage(w, http.StatusServiceUnavailable, "Watchlist unavailable")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type addCoinReq struct {
	Coin string `json:"coin"`
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req addCoinReq
	if !decodeJSON(w, r, &req) {
		return
	}

	symbol, err := h.Svc.Add(r.Context(), id.UserID, req.Coin)
	if err != nil {
		if errors.Is(err, watchlist.ErrInvalidSymbol) {
			writeMessage(w, http.StatusBadRequest, "Invalid coin symbol")
			return
		}
		h.Log.Error("watchlist write failed", zap.Uint64("user_id", id.UserID), zap.Error(err))
		writeMessage(w, http.StatusServiceUnavailable, "Watchlist unavailable")
		return
	}
	writeMessage(w, http.StatusOK, symbol+" added!")
}
