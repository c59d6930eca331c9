package http

import (
	"encoding/json"
	"net/http"

	"watchlist/internal/auth"
	"watchlist/internal/config"
	"watchlist/internal/http/handler"
	mw "watchlist/internal/http/middleware"
	"watchlist/internal/metrics"
	"watchlist/internal/watchlist"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Services are the explicitly constructed dependencies the routes call into.
type Services struct {
	Auth      *auth.Service
	Watchlist *watchlist.Service
	Users     handler.UserAdmin
	Storage   string
	Log       *zap.Logger
}

func NewRouter(cfg config.Config, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(svc.Log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.InstrumentHandler)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message":  "Crypto Watchlist API",
			"database": svc.Storage,
			"mode":     string(cfg.Mode),
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	ah := &handler.AuthHandler{Svc: svc.Auth, Log: svc.Log}
	limiter := mw.NewRateLimiter(cfg.RateLimitRPM)
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Post("/register", ah.Register)
		r.Get("/verify/{token}", ah.Verify)
		r.Post("/login", ah.Login)
	})

	wh := &handler.WatchlistHandler{Svc: svc.Watchlist, Log: svc.Log}
	r.Route("/api/watchlist", func(r chi.Router) {
		r.Use(auth.RequireAuth(svc.Auth))

		r.Get("/", wh.List)
		r.Post("/", wh.Add)
	})

	if cfg.DebugRoutes() && svc.Users != nil {
		svc.Log.Warn("debug routes enabled")
		dh := &handler.DebugHandler{Users: svc.Users, Log: svc.Log}
		r.Get("/api/debug/users", dh.ListUsers)
		r.Delete("/api/debug/clear", dh.Clear)
	}

	return r
}
