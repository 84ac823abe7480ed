package di_containers

import (
	"context"

	"github.com/trsv-dev/imageproxy/internal/api/proxy_handler"
	"github.com/trsv-dev/imageproxy/internal/config"
	"github.com/trsv-dev/imageproxy/internal/imaging"
	"github.com/trsv-dev/imageproxy/internal/logger"
	"github.com/trsv-dev/imageproxy/internal/middleware"
	"github.com/trsv-dev/imageproxy/internal/vhost"
	"github.com/trsv-dev/imageproxy/internal/worker"
)

// HandlersContainer Контейнер с хендлером и его зависимостями.
type HandlersContainer struct {
	ProxyHandler   *proxy_handler.ProxyHandler
	Sites          *vhost.Table
	Policy         *imaging.Policy
	ResizePool     worker.WorkerPool
	Ratelimiter    *middleware.Ratelimiter // nil, если ограничение выключено
	TrustForwarded bool
	AllowedOrigins []string
}

// NewHandlersContainer Конструктор контейнера с зависимостями для хендлеров.
// Воркеры ресайза запускаются сразу и работают до Close или отмены ctx.
func NewHandlersContainer(ctx context.Context, srvConfig *config.Config, settings *config.Settings, version string) (*HandlersContainer, error) {
	var ratelimiter *middleware.Ratelimiter
	if srvConfig.RateLimit > 0 {
		rl, err := middleware.NewRatelimiter(middleware.DefaultRatelimiterSize, srvConfig.RateLimit, srvConfig.RateBurst)
		if err != nil {
			return nil, err
		}
		ratelimiter = rl
	}

	sites := vhost.NewTable(settings.Sites)
	policy := imaging.NewPolicy(settings.Types)

	pool := worker.NewResizePool(imaging.NewNfntResizer(), srvConfig.ResizeWorkers, srvConfig.ResizeQueueSize())
	pool.Start(ctx)

	return &HandlersContainer{
		ProxyHandler:   proxy_handler.NewProxyHandler(sites, policy, pool, version),
		Sites:          sites,
		Policy:         policy,
		ResizePool:     pool,
		Ratelimiter:    ratelimiter,
		TrustForwarded: srvConfig.TrustForwarded,
		AllowedOrigins: srvConfig.AllowedOrigins,
	}, nil
}

// Reload Подменяет таблицу сайтов и настройки типов без перезапуска сервера.
func (c *HandlersContainer) Reload(settings *config.Settings) {
	c.Sites.Replace(settings.Sites)
	c.Policy.Replace(settings.Types)

	logger.Log.Info("Конфигурация сайтов перечитана", logger.Int("sites", c.Sites.Len()))
}

// Close Останавливает воркеры ресайза.
func (c *HandlersContainer) Close() {
	c.ResizePool.Stop()
}
