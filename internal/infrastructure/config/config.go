// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	detector := recurring.NewDetector(cfg.Detection.ToDetectorConfig())
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/merchant"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/reconcile"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/recurring"
)

// Config represents the entire application configuration
type Config struct {
	Storage        StorageConfig        `yaml:"storage"`
	Server         ServerConfig         `yaml:"server"`
	Detection      DetectionConfig      `yaml:"detection"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
	Merchants      MerchantsConfig      `yaml:"merchants"`
	Observability  ObservabilityConfig  `yaml:"observability"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DetectionConfig holds the recurring detector's tunable thresholds.
// Zero values fall back to the detector defaults.
type DetectionConfig struct {
	MinOccurrences    int     `yaml:"min_occurrences"`
	MaxGapCV          float64 `yaml:"max_gap_cv"`
	OutlierMultiplier float64 `yaml:"outlier_multiplier"`
	UpcomingWindow    int     `yaml:"upcoming_window_days"`
}

// ReconciliationConfig holds the reconciliation engine's tolerances.
// Zero values fall back to the engine defaults.
type ReconciliationConfig struct {
	AmountTolerance     float64 `yaml:"amount_tolerance"`
	RelativeTolerance   float64 `yaml:"relative_tolerance"`
	DateToleranceDays   int     `yaml:"date_tolerance_days"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	AgingThresholdDays  int     `yaml:"aging_threshold_days"`
}

// MerchantsConfig carries the optional alias table mapping raw merchant
// strings to canonical display names.
type MerchantsConfig struct {
	Aliases map[string]string `yaml:"aliases"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ToDetectorConfig merges the configured overrides onto the detector
// defaults.
func (d DetectionConfig) ToDetectorConfig() recurring.Config {
	cfg := recurring.DefaultConfig()
	if d.MinOccurrences > 0 {
		cfg.MinOccurrences = d.MinOccurrences
	}
	if d.MaxGapCV > 0 {
		cfg.MaxGapCV = d.MaxGapCV
	}
	if d.OutlierMultiplier > 0 {
		cfg.OutlierMultiplier = d.OutlierMultiplier
	}
	return cfg
}

// ToEngineConfig merges the configured overrides onto the engine defaults.
func (r ReconciliationConfig) ToEngineConfig() reconcile.Config {
	cfg := reconcile.DefaultConfig()
	if r.AmountTolerance > 0 {
		cfg.AmountTolerance = r.AmountTolerance
	}
	if r.RelativeTolerance > 0 {
		cfg.RelativeTolerance = r.RelativeTolerance
	}
	if r.DateToleranceDays > 0 {
		cfg.DateToleranceDays = r.DateToleranceDays
	}
	if r.SimilarityThreshold > 0 {
		cfg.SimilarityThreshold = r.SimilarityThreshold
	}
	if r.AgingThresholdDays > 0 {
		cfg.AgingThresholdDays = r.AgingThresholdDays
	}
	return cfg
}

// AliasTable converts the configured aliases into a merchant lookup table
// keyed by normalized merchant string. Returns nil when no aliases are
// configured.
func (m MerchantsConfig) AliasTable() merchant.AliasTable {
	if len(m.Aliases) == 0 {
		return nil
	}
	table := make(merchant.AliasTable, len(m.Aliases))
	for raw, canonical := range m.Aliases {
		table[merchant.Key(raw)] = canonical
	}
	return table
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${LEDGER_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	return &Config{
		Storage: StorageConfig{
			DatabasePath: getEnv("LEDGER_DB_PATH", "ledger.db"),
		},
		Server: ServerConfig{
			Port: getEnvInt("LEDGER_API_PORT", 8080),
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		Detection: DetectionConfig{
			UpcomingWindow: getEnvInt("LEDGER_UPCOMING_WINDOW_DAYS", 30),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
