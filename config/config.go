// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = "config/.env"

// NewConfig loads configuration from environment using viper with typed defaults and validation.
func NewConfig() (*Config, error) {
	v := viper.New()
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, v := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "debug")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("http.request_timeout", 3*time.Second)

	v.SetDefault("storage.backend", "badger")
	v.SetDefault("badger.dir", "data/badger")
	v.SetDefault("badger.in_memory", false)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db_name", "pr_risk_analyzer_db")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.migrations_dir", "db/migrations")
	v.SetDefault("postgres.migrate_timeout", 10*time.Second)
	v.SetDefault("postgres.query_timeout", 2*time.Second)
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)

	v.SetDefault("bitbucket.base_url", "https://api.bitbucket.org")
	v.SetDefault("bitbucket.username", "")
	v.SetDefault("bitbucket.app_password", "")

	v.SetDefault("analysis.very_small_max_lines", 10)
	v.SetDefault("analysis.small_max_lines", 50)
	v.SetDefault("analysis.medium_max_lines", 200)
	v.SetDefault("analysis.max_files_for_normalization", 10)
	v.SetDefault("analysis.max_lines_for_normalization", 300)
	v.SetDefault("analysis.files_weight", 0.4)
	v.SetDefault("analysis.lines_weight", 0.3)
	v.SetDefault("analysis.signals_weight", 0.3)
	v.SetDefault("analysis.no_reviewers_penalty", 0.3)
	v.SetDefault("analysis.critical_file_penalty", 0.2)
	v.SetDefault("analysis.critical_penalty_cap", 0.6)
	v.SetDefault("analysis.no_tests_penalty", 0.2)
	v.SetDefault("analysis.off_hours_penalty", 0.1)
	v.SetDefault("analysis.reviewer_grace_period", 2*time.Hour)
	v.SetDefault("analysis.doc_file_weight", 0.3)
	v.SetDefault("analysis.generated_file_weight", 0.2)
	v.SetDefault("analysis.rename_only_file_weight", 0.1)
	v.SetDefault("analysis.docs_only_max_risk", 20)
	v.SetDefault("analysis.tests_only_bonus", 20)
	v.SetDefault("analysis.very_small_floor_score", 60)
	v.SetDefault("analysis.red_below", 50)
	v.SetDefault("analysis.yellow_below", 80)
	v.SetDefault("analysis.off_hours_start", 20)
	v.SetDefault("analysis.off_hours_end", 6)
	v.SetDefault("analysis.stale_after", 72*time.Hour)
	v.SetDefault("analysis.critical_keywords", []string{
		"core", "auth", "infra", "payments", "security", "database",
	})
	v.SetDefault("analysis.test_keywords", []string{
		".test.", ".spec.", "__tests__", "test/",
	})
	v.SetDefault("analysis.doc_keywords", []string{
		".md", ".txt", "readme", "changelog", "license", "docs/", "documentation/",
	})
	v.SetDefault("analysis.generated_keywords", []string{
		"package-lock.json", "yarn.lock", "pnpm-lock.yaml", ".lock",
		"dist/", "build/", "generated/", ".min.js", ".bundle.js",
	})

	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.initial_backoff", time.Second)
	v.SetDefault("retry.max_backoff", 10*time.Second)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter_factor", 0.3)
	v.SetDefault("retry.request_timeout", 30*time.Second)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"server.host",
		"server.port",
		"server.shutdown_timeout",
		"http.request_timeout",
		"storage.backend",
		"badger.dir",
		"badger.in_memory",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.db_name",
		"postgres.ssl_mode",
		"postgres.migrations_dir",
		"postgres.migrate_timeout",
		"postgres.query_timeout",
		"postgres.max_conns",
		"postgres.min_conns",
		"bitbucket.base_url",
		"bitbucket.username",
		"bitbucket.app_password",
		"analysis.very_small_max_lines",
		"analysis.small_max_lines",
		"analysis.medium_max_lines",
		"analysis.max_files_for_normalization",
		"analysis.max_lines_for_normalization",
		"analysis.files_weight",
		"analysis.lines_weight",
		"analysis.signals_weight",
		"analysis.no_reviewers_penalty",
		"analysis.critical_file_penalty",
		"analysis.critical_penalty_cap",
		"analysis.no_tests_penalty",
		"analysis.off_hours_penalty",
		"analysis.reviewer_grace_period",
		"analysis.doc_file_weight",
		"analysis.generated_file_weight",
		"analysis.rename_only_file_weight",
		"analysis.docs_only_max_risk",
		"analysis.tests_only_bonus",
		"analysis.very_small_floor_score",
		"analysis.red_below",
		"analysis.yellow_below",
		"analysis.off_hours_start",
		"analysis.off_hours_end",
		"analysis.stale_after",
		"retry.max_retries",
		"retry.initial_backoff",
		"retry.max_backoff",
		"retry.multiplier",
		"retry.jitter_factor",
		"retry.request_timeout",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// DefaultAnalysis returns the analysis tunables with stock defaults.
// Used by tests and as a fallback when no configuration is loaded.
func DefaultAnalysis() AnalysisConfig {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg.Analysis
}

// DefaultRetry returns the retry tunables with stock defaults.
func DefaultRetry() RetryConfig {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg.Retry
}
