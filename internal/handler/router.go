package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	custommiddleware "github.com/mmeshcher/autoservice-system/internal/middleware"
)

// Routes регистрирует защищённые маршруты сервиса.
type Routes interface {
	Register(r chi.Router)
}

// RouterOptions задаёт общие для всех сервисов параметры маршрутизатора.
type RouterOptions struct {
	ServiceName string
	Logger      *zap.Logger
	Auth        *custommiddleware.AuthMiddleware
	Limiter     *custommiddleware.RateLimiter
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NewRouter настраивает HTTP-маршруты и middleware сервиса.
// /health доступен без авторизации, маршруты routes монтируются под /api за проверкой токена.
func NewRouter(opts RouterOptions, routes Routes) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.Logger(opts.Logger))
	r.Use(chimiddleware.Recoverer)
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}
	r.Use(custommiddleware.GzipMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: opts.ServiceName})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(opts.Auth.Middleware)
		routes.Register(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
