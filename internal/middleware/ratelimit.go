package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/juju/ratelimit"
	"github.com/trsv-dev/imageproxy/internal/api/response"
	"github.com/trsv-dev/imageproxy/internal/logger"
)

// DefaultRatelimiterSize Сколько клиентов помнит Ratelimiter. Вытесненный клиент
// при следующем запросе получает полное ведро.
const DefaultRatelimiterSize = 10000

// Ratelimiter Ограничивает частоту запросов по ключу клиента.
// Для каждого ключа держится token bucket, ведра хранятся в LRU-кэше.
type Ratelimiter struct {
	mu      sync.Mutex
	buckets *lru.Cache

	// FillRate скорость пополнения ведра, токенов в секунду.
	FillRate float64

	// Capacity максимальный размер ведра.
	Capacity int64
}

// NewRatelimiter Конструктор Ratelimiter.
func NewRatelimiter(size int, fillRate float64, capacity int64) (*Ratelimiter, error) {
	buckets, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	if capacity < 1 {
		capacity = 1
	}

	return &Ratelimiter{
		buckets:  buckets,
		FillRate: fillRate,
		Capacity: capacity,
	}, nil
}

// Take Забирает токен из ведра key. Возвращает false, если токенов нет.
func (rl *Ratelimiter) Take(key string) bool {
	rl.mu.Lock()
	var bucket *ratelimit.Bucket

	if v, ok := rl.buckets.Get(key); ok {
		bucket, _ = v.(*ratelimit.Bucket)
	}

	if bucket == nil {
		bucket = ratelimit.NewBucketWithRate(rl.FillRate, rl.Capacity)
		rl.buckets.Add(key, bucket)
	}
	rl.mu.Unlock()

	return bucket.TakeAvailable(1) == 1
}

// Len Количество отслеживаемых клиентов.
func (rl *Ratelimiter) Len() int {
	return rl.buckets.Len()
}

// RateLimitMiddleware Ограничивает частоту запросов с одного адреса.
// При превышении отвечает 429. X-Forwarded-For учитывается только при trustForwarded,
// то есть когда сервер стоит за своим обратным прокси.
func RateLimitMiddleware(rl *Ratelimiter, trustForwarded bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := clientAddr(r, trustForwarded)

			if !rl.Take(addr) {
				logger.Log.Warn("Превышен лимит запросов",
					logger.String("client", addr),
					logger.String("uri", r.RequestURI),
				)
				response.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr Адрес клиента: хост из RemoteAddr. При trustForwarded - первый адрес
// из X-Forwarded-For, если заголовок есть.
func clientAddr(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
