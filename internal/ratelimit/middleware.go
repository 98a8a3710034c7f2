package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/noah-isme/backend-loja/internal/common"
)

// KeyFunc derives the rate limit key from the request.
type KeyFunc func(r *http.Request) string

// Limiter wraps ulule/limiter with JSON error responses and standard headers.
type Limiter struct {
	limiter *limiter.Limiter
	keyFn   KeyFunc
	logger  zerolog.Logger
}

// New builds a limiter allowing rpm requests per minute per key. When
// client is nil the counters live in process memory.
func New(client *redis.Client, rpm int, keyFn KeyFunc, logger zerolog.Logger) (*Limiter, error) {
	if rpm <= 0 {
		rpm = 20
	}
	if keyFn == nil {
		keyFn = func(r *http.Request) string { return common.ClientIP(r) }
	}
	rate := limiter.Rate{Period: time.Minute, Limit: int64(rpm)}

	var store limiter.Store
	if client != nil {
		s, err := limredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix: "loja:ratelimit",
		})
		if err != nil {
			return nil, err
		}
		store = s
	} else {
		store = memory.NewStore()
	}
	return &Limiter{limiter: limiter.New(store, rate), keyFn: keyFn, logger: logger}, nil
}

// Middleware enforces the limit and emits X-RateLimit headers.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.keyFn(r)
		lctx, err := l.limiter.Get(r.Context(), key)
		if err != nil {
			// Limiter backend failure should not take the endpoint down.
			l.logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			retryAfter := lctx.Reset - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down.", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
