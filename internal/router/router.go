package router

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/trsv-dev/imageproxy/internal/di_containers"
	"github.com/trsv-dev/imageproxy/internal/middleware"
)

// Router Роутер. Все пути и методы уходят в ProxyHandler, метод он проверяет сам.
func Router(h *di_containers.HandlersContainer) chi.Router {
	router := chi.NewRouter()

	// паника в обработчике превращается в 500
	router.Use(chiMiddleware.Recoverer)

	router.Use(middleware.RequestIDMiddleware)

	// middleware логгера всех запросов
	router.Use(middleware.LogMiddleware)

	if len(h.AllowedOrigins) > 0 {
		router.Use(middleware.CorsMiddleware(h.AllowedOrigins))
	}

	if h.Ratelimiter != nil {
		router.Use(middleware.RateLimitMiddleware(h.Ratelimiter, h.TrustForwarded))
	}

	router.Handle("/*", h.ProxyHandler)

	// нестандартные методы chi отклоняет до маршрутизации, ответ 405 с Allow формирует ProxyHandler
	router.MethodNotAllowed(h.ProxyHandler.ServeHTTP)
	router.NotFound(h.ProxyHandler.ServeHTTP)

	return router
}
