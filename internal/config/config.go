package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Exchange          string
	ExchangeAPIKey    string
	ExchangeAPISecret string

	DatabaseURL string
	RedisURL    string

	SeriesMaxLimit int
	CacheTTLSecs   int

	MCPTransport          string
	MCPHTTPEnabled        bool
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int
}

// Load reads configuration from the environment once at process start.
// Exchange identifier validation happens in exchange.New; an identifier
// outside the allow-list is fatal there.
func Load() *Config {
	cfg := &Config{
		Exchange:          strings.ToLower(strings.TrimSpace(os.Getenv("EXCHANGE"))),
		ExchangeAPIKey:    os.Getenv("EXCHANGE_API_KEY"),
		ExchangeAPISecret: os.Getenv("EXCHANGE_API_SECRET"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		MCPAuthToken:      os.Getenv("MCP_AUTH_TOKEN"),
	}

	if cfg.Exchange == "" {
		cfg.Exchange = "binance"
	}
	if cfg.ExchangeAPIKey == "" {
		log.Println("Warning: EXCHANGE_API_KEY not set, using public endpoints only")
	}

	cfg.SeriesMaxLimit = 10000
	if v := strings.TrimSpace(os.Getenv("SERIES_MAX_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SeriesMaxLimit = n
		}
	}

	cfg.CacheTTLSecs = 60
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTLSecs = n
		}
	}

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Printf("Warning: unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MCP_HTTP_ENABLED")), "true")

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}

	cfg.MCPHTTPPort = 8090
	if v := strings.TrimSpace(os.Getenv("MCP_HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPHTTPPort = n
		}
	}

	cfg.MCPRequestTimeoutSecs = 30
	if v := strings.TrimSpace(os.Getenv("MCP_REQUEST_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPRequestTimeoutSecs = n
		}
	}

	cfg.MCPRateLimitPerMin = 60
	if v := strings.TrimSpace(os.Getenv("MCP_RATE_LIMIT_PER_MIN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPRateLimitPerMin = n
		}
	}

	return cfg
}
