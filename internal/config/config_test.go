package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/simrec/internal/domain/normalize"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Data.CorpusPath = "data/df_all_clean.csv"
	cfg.Data.MatrixPath = "data/pairwise_similarities.npy"
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	negative := -1
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }},
		{"negative port", func(c *Config) { c.HTTP.Port = -1 }},
		{"missing corpus", func(c *Config) { c.Data.CorpusPath = "" }},
		{"missing matrix", func(c *Config) { c.Data.MatrixPath = "" }},
		{"limit too large", func(c *Config) { c.Recommend.Limit = 1000 }},
		{"negative skip", func(c *Config) { c.Recommend.SkipNearest = &negative }},
		{"bad form", func(c *Config) { c.Normalize.Form = "NFD" }},
		{"bad cache driver", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"redis without addrs", func(c *Config) { c.Cache.Driver = CacheRedis }},
		{"valkey without addrs", func(c *Config) { c.Cache.Driver = CacheValkey }},
		{"negative rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = -5 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.MaxBodyBytes != 1<<20 {
		t.Errorf("expected 1MiB body limit, got %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.Data.Columns.Ref != "ref" || cfg.Data.Columns.Title != "title" || cfg.Data.Columns.URL != "title_url" {
		t.Errorf("unexpected default columns: %+v", cfg.Data.Columns)
	}
	if cfg.Recommend.Limit != 5 {
		t.Errorf("expected limit 5, got %d", cfg.Recommend.Limit)
	}
	if cfg.Recommend.SkipNearest == nil || *cfg.Recommend.SkipNearest != 1 {
		t.Errorf("expected skip_nearest 1, got %v", cfg.Recommend.SkipNearest)
	}
	if cfg.Recommend.MaxBatchSize != 100 {
		t.Errorf("expected max batch size 100, got %d", cfg.Recommend.MaxBatchSize)
	}
	if len(cfg.Normalize.Replacements) != len(normalize.DefaultReplacements()) {
		t.Errorf("expected default replacements, got %v", cfg.Normalize.Replacements)
	}
	if cfg.Cache.Driver != CacheNone {
		t.Errorf("expected cache driver none, got %q", cfg.Cache.Driver)
	}
}

func TestParse_ExplicitZeroSkipSurvivesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
data:
  corpus_path: c.csv
  matrix_path: m.npy
recommend:
  limit: 3
  skip_nearest: 0
normalize:
  form: none
  replacements: []
  collapse_space: false
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Limit() != 3 || opts.SkipNearest() != 0 {
		t.Errorf("unexpected options limit=%d skip=%d", opts.Limit(), opts.SkipNearest())
	}

	nc := cfg.NormalizerConfig()
	if nc.Form != normalize.FormNone {
		t.Errorf("expected form none, got %q", nc.Form)
	}
	if len(nc.Replacements) != 0 {
		t.Errorf("expected explicit empty replacements to stay empty, got %v", nc.Replacements)
	}
	if nc.CollapseSpace {
		t.Error("expected collapse_space false")
	}
	if !nc.Trim {
		t.Error("expected trim to default to true")
	}
}

func TestParse_UnicodeEscapesInReplacements(t *testing.T) {
	cfg, err := Parse([]byte(`
normalize:
  replacements:
    - from: "\u2009"
      to: " "
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Normalize.Replacements) != 1 || cfg.Normalize.Replacements[0].From != "\u2009" {
		t.Fatalf("expected thin space replacement, got %+v", cfg.Normalize.Replacements)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SIMREC_TEST_CORPUS", "/srv/corpus.csv")

	out := string(expandEnvVars([]byte("a: ${SIMREC_TEST_CORPUS}\nb: ${SIMREC_TEST_UNSET:-fallback}\nc: ${SIMREC_TEST_UNSET}")))
	want := "a: /srv/corpus.csv\nb: fallback\nc: "
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoad_FromSIMRECConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := []byte(`
http:
  port: 9090
data:
  corpus_path: ${SIMREC_TEST_DATA}/corpus.csv
  matrix_path: ${SIMREC_TEST_DATA}/matrix.npy
cache:
  driver: memory
  capacity: 16
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SIMREC_CONFIG", path)
	t.Setenv("SIMREC_TEST_DATA", "/data")

	cfg, err := Load("whatever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Data.CorpusPath != "/data/corpus.csv" {
		t.Errorf("unexpected corpus path %q", cfg.Data.CorpusPath)
	}
	if cfg.Cache.Driver != CacheMemory || cfg.Cache.Capacity != 16 {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Setenv("SIMREC_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load("local")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestRead_SkipsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("recommend:\n  limit: 3\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SIMREC_CONFIG", path)

	cfg, err := Read("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recommend.Limit != 3 {
		t.Errorf("expected limit 3, got %d", cfg.Recommend.Limit)
	}
	if _, err := Load("local"); err == nil {
		t.Fatal("expected Load to reject missing data paths")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}
