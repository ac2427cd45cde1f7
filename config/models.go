package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Badger    BadgerConfig    `mapstructure:"badger"`
	Bitbucket BitbucketConfig `mapstructure:"bitbucket"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Retry     RetryConfig     `mapstructure:"retry"`
}

// Validate ensures required fields are present and tunables are coherent.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	switch c.Storage.Backend {
	case "badger":
		if c.Badger.Dir == "" && !c.Badger.InMemory {
			return errors.New("badger.dir is required for the badger backend")
		}
	case "postgres":
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
			return errors.New("postgres credentials are required")
		}
		if c.Postgres.Host == "" {
			return errors.New("postgres.host is required")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	return c.Analysis.Validate()
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// StorageConfig selects the KV store backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

// BadgerConfig describes the embedded BadgerDB backend.
type BadgerConfig struct {
	Dir      string `mapstructure:"dir"`
	InMemory bool   `mapstructure:"in_memory"`
}

// PostgresConfig describes database connection parameters for the
// PostgreSQL KV backend.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// BitbucketConfig describes access to the Bitbucket Cloud REST API.
type BitbucketConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Username    string `mapstructure:"username"`
	AppPassword string `mapstructure:"app_password"`
}

// AnalysisConfig carries every scoring tunable. Thresholds live in
// configuration instead of constants so operators can tune them per
// deployment.
type AnalysisConfig struct {
	// Size category cutoffs on total changed lines.
	VerySmallMaxLines int `mapstructure:"very_small_max_lines"`
	SmallMaxLines     int `mapstructure:"small_max_lines"`
	MediumMaxLines    int `mapstructure:"medium_max_lines"`

	// Normalization ceilings for the 0-1 sub-scores.
	MaxFilesForNormalization int `mapstructure:"max_files_for_normalization"`
	MaxLinesForNormalization int `mapstructure:"max_lines_for_normalization"`

	// Composite weights, must sum to 1.0.
	FilesWeight   float64 `mapstructure:"files_weight"`
	LinesWeight   float64 `mapstructure:"lines_weight"`
	SignalsWeight float64 `mapstructure:"signals_weight"`

	// Per-signal penalties, expressed in [0,1] risk units.
	NoReviewersPenalty  float64       `mapstructure:"no_reviewers_penalty"`
	CriticalFilePenalty float64       `mapstructure:"critical_file_penalty"`
	CriticalPenaltyCap  float64       `mapstructure:"critical_penalty_cap"`
	NoTestsPenalty      float64       `mapstructure:"no_tests_penalty"`
	OffHoursPenalty     float64       `mapstructure:"off_hours_penalty"`
	ReviewerGracePeriod time.Duration `mapstructure:"reviewer_grace_period"`

	// Effective file weights per category.
	DocFileWeight        float64 `mapstructure:"doc_file_weight"`
	GeneratedFileWeight  float64 `mapstructure:"generated_file_weight"`
	RenameOnlyFileWeight float64 `mapstructure:"rename_only_file_weight"`

	// Special cases.
	DocsOnlyMaxRisk     int `mapstructure:"docs_only_max_risk"`
	TestsOnlyBonus      int `mapstructure:"tests_only_bonus"`
	VerySmallFloorScore int `mapstructure:"very_small_floor_score"`

	// Color thresholds: score < RedBelow is red, < YellowBelow is yellow.
	RedBelow    int `mapstructure:"red_below"`
	YellowBelow int `mapstructure:"yellow_below"`

	// Off-hours window in UTC hours; wraps midnight when start > end.
	OffHoursStart int `mapstructure:"off_hours_start"`
	OffHoursEnd   int `mapstructure:"off_hours_end"`

	// StaleAfter marks open PRs stale once older than this.
	StaleAfter time.Duration `mapstructure:"stale_after"`

	// Path classification keyword lists, matched case-insensitively.
	CriticalKeywords  []string `mapstructure:"critical_keywords"`
	TestKeywords      []string `mapstructure:"test_keywords"`
	DocKeywords       []string `mapstructure:"doc_keywords"`
	GeneratedKeywords []string `mapstructure:"generated_keywords"`
}

// Validate checks scoring tunables for coherence.
func (a AnalysisConfig) Validate() error {
	if sum := a.FilesWeight + a.LinesWeight + a.SignalsWeight; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("analysis weights must sum to 1.0, got %v", sum)
	}
	if a.VerySmallMaxLines >= a.SmallMaxLines || a.SmallMaxLines >= a.MediumMaxLines {
		return errors.New("analysis size cutoffs must be strictly increasing")
	}
	if a.RedBelow >= a.YellowBelow {
		return errors.New("analysis.red_below must be below analysis.yellow_below")
	}
	if a.MaxFilesForNormalization <= 0 || a.MaxLinesForNormalization <= 0 {
		return errors.New("analysis normalization ceilings must be positive")
	}
	return nil
}

// RetryConfig describes resilient remote call behavior.
type RetryConfig struct {
	MaxRetries     int           `mapstructure:"max_retries"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	Multiplier     float64       `mapstructure:"multiplier"`
	JitterFactor   float64       `mapstructure:"jitter_factor"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}
