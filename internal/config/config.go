package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/simrec/internal/domain/normalize"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
)

// Cache drivers.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheValkey = "valkey"
)

// Config holds the simrec configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Data      DataConfig      `yaml:"data"`
	Recommend RecommendConfig `yaml:"recommend"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Cache     CacheConfig     `yaml:"cache"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxBodyBytes    int64 `yaml:"max_body_bytes"`
}

// DataConfig points at the precomputed corpus and similarity matrix.
type DataConfig struct {
	CorpusPath string        `yaml:"corpus_path"` // .csv or .parquet
	MatrixPath string        `yaml:"matrix_path"` // .npy
	Columns    ColumnsConfig `yaml:"columns"`
}

// ColumnsConfig names the corpus columns.
type ColumnsConfig struct {
	Ref   string `yaml:"ref"`
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// RecommendConfig holds lookup defaults.
type RecommendConfig struct {
	Limit int `yaml:"limit"`
	// SkipNearest is a pointer so that an explicit 0 survives ApplyDefaults.
	SkipNearest  *int `yaml:"skip_nearest"`
	MaxBatchSize int  `yaml:"max_batch_size"`
}

// NormalizeConfig describes reference normalization.
type NormalizeConfig struct {
	Form          string              `yaml:"form"` // NFKC (default), NFC, none
	Replacements  []ReplacementConfig `yaml:"replacements"`
	Trim          *bool               `yaml:"trim"`
	CollapseSpace *bool               `yaml:"collapse_space"`
}

// ReplacementConfig substitutes From with To before Unicode normalization.
type ReplacementConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none (default), memory, redis, valkey
	Capacity         int      `yaml:"capacity"`
	TTLSec           int      `yaml:"ttl_sec"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CORSConfig holds CORS settings. No origins means CORS is disabled.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// RateLimitConfig holds per-IP rate limiting. 0 disables it.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	cfg, err := Read(env)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation, for callers that override fields first.
func Read(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML (after ${VAR} expansion) and applies defaults. It does not validate.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// Defaults returns a configuration with every default applied and no data paths.
func Defaults() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 1 << 20
	}
	if c.Data.Columns.Ref == "" {
		c.Data.Columns.Ref = "ref"
	}
	if c.Data.Columns.Title == "" {
		c.Data.Columns.Title = "title"
	}
	if c.Data.Columns.URL == "" {
		c.Data.Columns.URL = "title_url"
	}
	if c.Recommend.Limit <= 0 {
		c.Recommend.Limit = recommendation.DefaultLimit
	}
	if c.Recommend.MaxBatchSize <= 0 {
		c.Recommend.MaxBatchSize = 100
	}
	if c.Recommend.SkipNearest == nil {
		skip := recommendation.DefaultSkipNearest
		c.Recommend.SkipNearest = &skip
	}
	if c.Normalize.Replacements == nil {
		for _, r := range normalize.DefaultReplacements() {
			c.Normalize.Replacements = append(c.Normalize.Replacements, ReplacementConfig{From: r.From, To: r.To})
		}
	}
	if c.Normalize.Trim == nil {
		t := true
		c.Normalize.Trim = &t
	}
	if c.Normalize.CollapseSpace == nil {
		t := true
		c.Normalize.CollapseSpace = &t
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheNone
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = 1024
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Data.CorpusPath == "" {
		return fmt.Errorf("data.corpus_path is required")
	}
	if c.Data.MatrixPath == "" {
		return fmt.Errorf("data.matrix_path is required")
	}
	if _, err := c.Options(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Recommend.SkipNearest != nil && *c.Recommend.SkipNearest < 0 {
		return fmt.Errorf("recommend.skip_nearest must be >= 0, got %d", *c.Recommend.SkipNearest)
	}
	if _, err := normalize.ParseForm(c.Normalize.Form); err != nil {
		return fmt.Errorf("normalize.form: %w", err)
	}
	switch c.Cache.Driver {
	case CacheNone, CacheMemory:
		// ok
	case CacheRedis, CacheValkey:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be one of none, memory, redis, valkey, got %q", c.Cache.Driver)
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 0, got %d", c.RateLimit.RequestsPerMinute)
	}
	return nil
}

// Options returns the validated default lookup options.
func (c *Config) Options() (recommendation.Options, error) {
	skip := recommendation.DefaultSkipNearest
	if c.Recommend.SkipNearest != nil {
		skip = *c.Recommend.SkipNearest
	}
	opts, err := recommendation.NewOptions(c.Recommend.Limit, skip)
	if err != nil {
		return recommendation.Options{}, fmt.Errorf("build options: %w", err)
	}
	return opts, nil
}

// NormalizerConfig converts the YAML section into a normalize.Config.
// An unparseable form falls back to NFKC; Validate reports it.
func (c *Config) NormalizerConfig() normalize.Config {
	form, err := normalize.ParseForm(c.Normalize.Form)
	if err != nil {
		form = normalize.FormNFKC
	}
	repl := make([]normalize.Replacement, 0, len(c.Normalize.Replacements))
	for _, r := range c.Normalize.Replacements {
		repl = append(repl, normalize.Replacement{From: r.From, To: r.To})
	}
	return normalize.Config{
		Replacements:  repl,
		Form:          form,
		Trim:          c.Normalize.Trim == nil || *c.Normalize.Trim,
		CollapseSpace: c.Normalize.CollapseSpace == nil || *c.Normalize.CollapseSpace,
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. SIMREC_CONFIG wins when set
	if p := os.Getenv("SIMREC_CONFIG"); p != "" {
		return p
	}

	// 2. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 3. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 4. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
