package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Config struct {
	LogLevel     slog.Level
	LogFormat    string // text, json or auto
	Tolerance    decimal.Decimal
	Format       string // toon or json
	FallbackJSON bool
}

func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:     slog.LevelInfo,
		LogFormat:    "auto",
		Tolerance:    decimal.New(1, -2),
		Format:       "toon",
		FallbackJSON: true,
	}

	if v := os.Getenv("PROCURE_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("PROCURE_LOG_LEVEL: invalid level %q", v)
		}
	}

	if v := os.Getenv("PROCURE_LOG_FORMAT"); v != "" {
		switch v = strings.ToLower(v); v {
		case "text", "json", "auto":
			cfg.LogFormat = v
		default:
			return nil, fmt.Errorf("PROCURE_LOG_FORMAT must be text, json or auto, got %q", v)
		}
	}

	if v := os.Getenv("PROCURE_TOLERANCE"); v != "" {
		tol, err := decimal.NewFromString(v)
		if err != nil || tol.IsNegative() {
			return nil, fmt.Errorf("PROCURE_TOLERANCE must be a non-negative decimal, got %q", v)
		}
		cfg.Tolerance = tol
	}

	if v := os.Getenv("PROCURE_FORMAT"); v != "" {
		switch v = strings.ToLower(v); v {
		case "toon", "json":
			cfg.Format = v
		default:
			return nil, fmt.Errorf("PROCURE_FORMAT must be toon or json, got %q", v)
		}
	}

	if v := os.Getenv("PROCURE_FALLBACK_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("PROCURE_FALLBACK_JSON: %w", err)
		}
		cfg.FallbackJSON = b
	}

	return cfg, nil
}
