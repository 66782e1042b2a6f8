package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings read from the environment.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	// Passenger source: "rest" or "postgres".
	PassengerSource string
	PassengerAPIURL string
	PassengerStatus string
	DatabaseURL     string

	// Directions provider: "google" or "mock".
	MapsProvider      string
	GoogleMapsAPIKey  string
	DirectionsBaseURL string

	RedisURL      string
	RouteCacheTTL time.Duration

	AMQPURL string

	RouteTimeout   time.Duration
	DebounceWindow time.Duration
	SessionIdleTTL time.Duration
}

// Get returns the environment variable for key or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		// Bare numbers are accepted as milliseconds.
		ms, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
		}
		d = time.Duration(ms) * time.Millisecond
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", key, d)
	}
	return d, nil
}

// Load builds a Config from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      Get("APP_ENV", "development"),
		Port:     Get("PORT", "8080"),
		LogLevel: Get("LOG_LEVEL", "info"),

		PassengerSource: strings.ToLower(Get("PASSENGER_SOURCE", "rest")),
		PassengerAPIURL: Get("PASSENGER_API_URL", ""),
		PassengerStatus: Get("PASSENGER_STATUS", "routing"),
		DatabaseURL:     Get("DATABASE_URL", ""),

		MapsProvider:      strings.ToLower(Get("MAPS_PROVIDER", "google")),
		GoogleMapsAPIKey:  Get("GOOGLE_MAPS_API_KEY", ""),
		DirectionsBaseURL: Get("DIRECTIONS_BASE_URL", "https://maps.googleapis.com"),

		RedisURL: Get("REDIS_URL", ""),
		AMQPURL:  Get("AMQP_URL", ""),
	}

	var err error
	if cfg.RouteCacheTTL, err = getDuration("ROUTE_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RouteTimeout, err = getDuration("ROUTE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.DebounceWindow, err = getDuration("DEBOUNCE_WINDOW", 100*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = getDuration("SESSION_IDLE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.PassengerSource {
	case "rest":
		if c.PassengerAPIURL == "" {
			return fmt.Errorf("config: PASSENGER_API_URL is required when PASSENGER_SOURCE=rest")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when PASSENGER_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown PASSENGER_SOURCE %q", c.PassengerSource)
	}

	switch c.MapsProvider {
	case "google":
		if c.GoogleMapsAPIKey == "" {
			return fmt.Errorf("config: GOOGLE_MAPS_API_KEY is required when MAPS_PROVIDER=google")
		}
	case "mock":
	default:
		return fmt.Errorf("config: unknown MAPS_PROVIDER %q", c.MapsProvider)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
