package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	AppEnv    string
	Port      int
	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	// RedisURL is optional. When empty the server falls back to an
	// in-process store and readiness reports degraded mode.
	RedisURL string

	CatalogFile     string
	CatalogCacheTTL time.Duration

	OriginPostalCode  string
	ViaCEPBaseURL     string
	MelhorEnvioURL    string
	MelhorEnvioToken  string
	ShippingTimeout   time.Duration
	ContactEmail      string

	PaymentBaseURL          string
	PaymentTimeout          time.Duration
	CheckoutIncludeDiscount bool
	IdempotencyTTL          time.Duration

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	ChatRateRPM   int

	MetricsNamespace string
	MetricsBuckets   string

	TracingEnabled       bool
	TracingEndpoint      string
	TracingSamplingRatio float64

	PprofUser     string
	PprofPassword string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment. A local .env file is
// honoured when present so development matches deployment.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Config{
		AppEnv:    valueOrDefault(k.String("app_env"), "development"),
		Port:      intOrDefault(k.String("port"), 8080),
		LogLevel:  valueOrDefault(k.String("log_level"), "info"),
		LogFormat: valueOrDefault(k.String("log_format"), "json"),

		CORSAllowedOrigins: splitCSV(valueOrDefault(k.String("cors_allowed_origins"), "http://localhost:5173")),

		RedisURL: k.String("redis_url"),

		CatalogFile:     valueOrDefault(k.String("catalog_file"), "data/products.json"),
		CatalogCacheTTL: parseDuration(k.String("catalog_cache_ttl"), 5*time.Minute),

		OriginPostalCode: valueOrDefault(k.String("origin_postal_code"), "01001000"),
		ViaCEPBaseURL:    valueOrDefault(k.String("viacep_base_url"), "https://viacep.com.br"),
		MelhorEnvioURL:   valueOrDefault(k.String("melhor_envio_url"), "https://melhorenvio.com.br/api/v2/me"),
		MelhorEnvioToken: k.String("melhor_envio_token"),
		ShippingTimeout:  parseDuration(k.String("shipping_timeout"), 10*time.Second),
		ContactEmail:     valueOrDefault(k.String("contact_email"), "contato@shalomadonai.com.br"),

		PaymentBaseURL:          valueOrDefault(k.String("payment_base_url"), "http://localhost:3001"),
		PaymentTimeout:          parseDuration(k.String("payment_timeout"), 10*time.Second),
		CheckoutIncludeDiscount: boolOrDefault(k.String("checkout_include_discount"), false),
		IdempotencyTTL:          parseDuration(k.String("idempotency_ttl"), 24*time.Hour),

		GeminiAPIKey:  k.String("gemini_api_key"),
		GeminiModel:   valueOrDefault(k.String("gemini_model"), "gemini-2.0-flash"),
		GeminiBaseURL: valueOrDefault(k.String("gemini_base_url"), "https://generativelanguage.googleapis.com"),
		ChatRateRPM:   intOrDefault(k.String("chat_rate_rpm"), 20),

		MetricsNamespace: valueOrDefault(k.String("metrics_namespace"), "loja"),
		MetricsBuckets:   k.String("metrics_buckets"),

		TracingEnabled:       boolOrDefault(k.String("tracing_enabled"), false),
		TracingEndpoint:      k.String("tracing_endpoint"),
		TracingSamplingRatio: floatOrDefault(k.String("tracing_sampling_ratio"), 1.0),

		PprofUser:     k.String("pprof_user"),
		PprofPassword: k.String("pprof_password"),

		ReadTimeout:     parseDuration(k.String("read_timeout"), 15*time.Second),
		WriteTimeout:    parseDuration(k.String("write_timeout"), 30*time.Second),
		IdleTimeout:     parseDuration(k.String("idle_timeout"), 60*time.Second),
		ShutdownTimeout: parseDuration(k.String("shutdown_timeout"), 10*time.Second),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	return cfg, nil
}

// LoadForTests returns a config suitable for tests without touching the environment.
func LoadForTests() Config {
	return Config{
		AppEnv:                  "test",
		Port:                    8080,
		LogLevel:                "error",
		LogFormat:               "json",
		CORSAllowedOrigins:      []string{"http://localhost:5173"},
		CatalogFile:             "data/products.json",
		CatalogCacheTTL:         time.Minute,
		OriginPostalCode:        "01001000",
		ViaCEPBaseURL:           "https://viacep.com.br",
		MelhorEnvioURL:          "https://melhorenvio.com.br/api/v2/me",
		ShippingTimeout:         time.Second,
		ContactEmail:            "contato@shalomadonai.com.br",
		PaymentBaseURL:          "http://localhost:3001",
		PaymentTimeout:          time.Second,
		IdempotencyTTL:          time.Minute,
		GeminiModel:             "gemini-2.0-flash",
		GeminiBaseURL:           "https://generativelanguage.googleapis.com",
		ChatRateRPM:             20,
		MetricsNamespace:        "loja_test",
		TracingSamplingRatio:    1.0,
		ReadTimeout:             time.Second,
		WriteTimeout:            time.Second,
		IdleTimeout:             time.Second,
		ShutdownTimeout:         time.Second,
		CheckoutIncludeDiscount: false,
	}
}

// HTTPAddr returns the listen address for the HTTP server.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProduction reports whether the app runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func valueOrDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func intOrDefault(v string, def int) int {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return def
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return def
	}
	return n
}

func floatOrDefault(v string, def float64) float64 {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return def
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return def
	}
	return f
}

func boolOrDefault(v string, def bool) bool {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return def
	}
	b, err := strconv.ParseBool(trimmed)
	if err != nil {
		return def
	}
	return b
}

func parseDuration(v string, def time.Duration) time.Duration {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return def
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
