package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/chat"
	"github.com/noah-isme/backend-loja/internal/checkout"
	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/config"
	"github.com/noah-isme/backend-loja/internal/health"
	"github.com/noah-isme/backend-loja/internal/obs"
	"github.com/noah-isme/backend-loja/internal/postal"
	"github.com/noah-isme/backend-loja/internal/ratelimit"
	"github.com/noah-isme/backend-loja/internal/resilience"
	"github.com/noah-isme/backend-loja/internal/shipping"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	tracingEnabled := cfg.TracingEnabled
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "loja-api",
			Endpoint:      cfg.TracingEndpoint,
			Exporter:      "otlp",
			SamplingRatio: cfg.TracingSamplingRatio,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Redis is optional: without it carts live in process memory and the
	// catalog is read straight from disk on every request.
	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		redisClient = redis.NewClient(redisOpts)
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("ping redis")
		}
	} else {
		logger.Warn().Msg("REDIS_URL not set, using in-memory cart store")
	}

	validate := validator.New()

	catalogSvc := &catalog.Service{
		Store:  catalog.FileStore{Path: cfg.CatalogFile},
		Cache:  catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		Logger: logger,
	}
	if _, err := catalogSvc.Store.ReadAll(); err != nil {
		logger.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("load catalog")
	}
	catalogHandler := &catalog.Handler{Service: catalogSvc}

	var cartStore cart.Store
	if redisClient != nil {
		cartStore = &cart.RedisStore{Client: redisClient, TTL: 30 * 24 * time.Hour, Logger: logger}
	} else {
		cartStore = cart.NewMemoryStore()
	}
	cartSvc := &cart.Service{Store: cartStore, Catalog: catalogSvc, Logger: logger}
	cartHandler := &cart.Handler{Service: cartSvc, Validate: validate}

	outboundTransport := otelhttp.NewTransport(http.DefaultTransport)

	viacep := &postal.Client{
		BaseURL: cfg.ViaCEPBaseURL,
		HTTP: &resilience.HTTPClient{
			Client:      &http.Client{Timeout: cfg.ShippingTimeout, Transport: outboundTransport},
			Breaker:     resilience.NewBreaker(10, 0.5, 30*time.Second).WithTarget("viacep").WithLogger(logger),
			MaxAttempts: 2,
			BaseBackoff: 200 * time.Millisecond,
		},
	}
	rates := &shipping.MelhorEnvio{
		BaseURL:      cfg.MelhorEnvioURL,
		Token:        cfg.MelhorEnvioToken,
		OriginCEP:    cfg.OriginPostalCode,
		ContactEmail: cfg.ContactEmail,
		HTTP: &resilience.HTTPClient{
			Client:      &http.Client{Timeout: cfg.ShippingTimeout, Transport: outboundTransport},
			Breaker:     resilience.NewBreaker(10, 0.5, 30*time.Second).WithTarget("melhorenvio").WithLogger(logger),
			MaxAttempts: 2,
			BaseBackoff: 250 * time.Millisecond,
		},
	}
	shippingSvc := &shipping.Service{Carts: cartSvc, Postal: viacep, Rates: rates, Logger: logger}
	shippingHandler := &shipping.Handler{Service: shippingSvc}

	payments := &checkout.MercadoPago{
		BaseURL: cfg.PaymentBaseURL,
		HTTP: &resilience.HTTPClient{
			Client:      &http.Client{Timeout: cfg.PaymentTimeout, Transport: outboundTransport},
			Breaker:     resilience.NewBreaker(10, 0.5, 30*time.Second).WithTarget("mercadopago").WithLogger(logger),
			MaxAttempts: 1,
		},
	}
	checkoutSvc := &checkout.Service{
		Carts:           cartSvc,
		Client:          payments,
		Logger:          logger,
		IncludeDiscount: cfg.CheckoutIncludeDiscount,
	}
	checkoutHandler := &checkout.Handler{Service: checkoutSvc, Validate: validate}

	gemini := &chat.Gemini{
		BaseURL: cfg.GeminiBaseURL,
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		HTTP: &resilience.HTTPClient{
			Client:      &http.Client{Timeout: cfg.ShippingTimeout, Transport: outboundTransport},
			Breaker:     resilience.NewBreaker(10, 0.5, 30*time.Second).WithTarget("gemini").WithLogger(logger),
			MaxAttempts: 1,
		},
	}
	chatSvc := &chat.Service{Model: gemini, Logger: logger}
	chatHandler := &chat.Handler{Service: chatSvc, Validate: validate}

	chatLimiter, err := ratelimit.New(redisClient, cfg.ChatRateRPM, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	buckets := obs.ParseBucketsCSV(cfg.MetricsBuckets)
	httpMetrics := obs.NewHTTPMetrics(cfg.MetricsNamespace, buckets, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/debug/pprof", protectPprof(newPprofMux(), cfg.PprofUser, cfg.PprofPassword))

	healthHandler := &health.Handler{Timeout: 2 * time.Second}
	if redisClient != nil {
		healthHandler.Checkers = append(healthHandler.Checkers, health.CheckFunc{
			Label: "redis",
			Probe: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	healthHandler.Checkers = append(healthHandler.Checkers, health.CheckFunc{
		Label: "catalog",
		Probe: func(ctx context.Context) error {
			_, err := os.Stat(cfg.CatalogFile)
			return err
		},
	})
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/categories", catalogHandler.Categories)
		v.Get("/products", catalogHandler.Products)
		v.Get("/products/{id}", catalogHandler.ProductDetail)

		v.Route("/carts", func(c chi.Router) {
			c.Post("/", cartHandler.Create)
			c.Get("/{id}", cartHandler.Get)
			c.Post("/{id}/items", cartHandler.AddItem)
			c.Delete("/{id}/items/{productId}", cartHandler.RemoveItem)
			c.Post("/{id}/items/{productId}/save", cartHandler.SaveForLater)
			c.Post("/{id}/items/{productId}/activate", cartHandler.Activate)
			c.Post("/{id}/coupon", cartHandler.ApplyCoupon)
			c.Post("/{id}/quote/shipping", shippingHandler.Quote)
			c.Post("/{id}/shipping/select", cartHandler.SelectShipping)
		})

		v.With(idem.Middleware).Post("/checkout", checkoutHandler.Start)
		v.With(chatLimiter.Middleware).Post("/chat", chatHandler.Post)
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
