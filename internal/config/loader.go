package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/resource-planner/internal/capacity"
)

// Config captures environment driven configuration values for the planner
// service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	HolidayConfigPath string
	ConflictCacheTTL  time.Duration
	ConflictCacheSize int
}

// Load parses configuration values from the current process environment.
//
// Every value has a workable default; Load only fails when a variable is
// present but unparseable.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:          8080,
		SQLiteDSN:         "file:planner.db?_foreign_keys=on",
		ConflictCacheTTL:  30 * time.Second,
		ConflictCacheSize: 128,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("PLANNER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PLANNER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("PLANNER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if path := strings.TrimSpace(os.Getenv("PLANNER_HOLIDAY_CONFIG")); path != "" {
		cfg.HolidayConfigPath = path
	}

	if ttlValue := strings.TrimSpace(os.Getenv("PLANNER_CONFLICT_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "PLANNER_CONFLICT_CACHE_TTL")
		} else {
			cfg.ConflictCacheTTL = ttl
		}
	}

	if sizeValue := strings.TrimSpace(os.Getenv("PLANNER_CONFLICT_CACHE_SIZE")); sizeValue != "" {
		size, err := strconv.Atoi(sizeValue)
		if err != nil || size <= 0 {
			invalid = append(invalid, "PLANNER_CONFLICT_CACHE_SIZE")
		} else {
			cfg.ConflictCacheSize = size
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// LoadHolidayConfig reads a YAML holiday calendar from path. An empty path
// yields an empty configuration, leaving all default holidays enabled.
func LoadHolidayConfig(path string) (capacity.CalendarConfig, error) {
	if strings.TrimSpace(path) == "" {
		return capacity.CalendarConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return capacity.CalendarConfig{}, fmt.Errorf("reading holiday config: %w", err)
	}

	var cfg capacity.CalendarConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return capacity.CalendarConfig{}, fmt.Errorf("parsing holiday config: %w", err)
	}

	for _, holiday := range cfg.Custom {
		if holiday.Month < 1 || holiday.Month > 12 || holiday.Day < 1 || holiday.Day > 31 {
			return capacity.CalendarConfig{}, fmt.Errorf("holiday config: %q has an out of range date", holiday.Name)
		}
	}

	return cfg, nil
}
