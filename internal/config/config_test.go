package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Index:     IndexConfig{Driver: DriverQdrant, URL: "http://localhost:6334"},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d: expected error", port)
		}
	}
}

func TestValidate_Driver(t *testing.T) {
	tests := []struct {
		name    string
		index   IndexConfig
		wantErr string
	}{
		{"qdrant without url", IndexConfig{Driver: DriverQdrant}, "index.url is required"},
		{"valkey without addrs", IndexConfig{Driver: DriverValkey}, "index.addrs is required"},
		{"unknown driver", IndexConfig{Driver: "pinecone"}, `index.driver must be "qdrant" or "valkey", got "pinecone"`},
		{"valkey ok", IndexConfig{Driver: DriverValkey, Addrs: []string{"localhost:6379"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Index = tt.index
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestValidate_CacheWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 3000 {
		t.Errorf("expected Port=3000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Index.Driver != DriverQdrant {
		t.Errorf("expected Driver=qdrant, got %q", cfg.Index.Driver)
	}
	if cfg.Index.Collection != "docs" {
		t.Errorf("expected Collection=docs, got %q", cfg.Index.Collection)
	}
	if got := cfg.Index.ReadinessTimeoutDuration(); got != 10*time.Second {
		t.Errorf("expected readiness timeout 10s, got %s", got)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected Provider=openai, got %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.LoadTimeoutSec != 120 {
		t.Errorf("expected LoadTimeoutSec=120, got %d", cfg.Embedding.LoadTimeoutSec)
	}
	if got := cfg.Cache.TTL(); got != 24*time.Hour {
		t.Errorf("expected cache TTL 24h, got %s", got)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 9000, ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Index:     IndexConfig{Driver: DriverValkey, Collection: "handbook", ReadinessTimeout: 15},
		Embedding: EmbeddingConfig{Provider: "nebius", LoadTimeoutSec: 10},
		Cache:     CacheConfig{TTLSec: 60},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected Port=9000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Index.Driver != DriverValkey {
		t.Errorf("expected Driver=valkey, got %q", cfg.Index.Driver)
	}
	if cfg.Index.Collection != "handbook" {
		t.Errorf("expected Collection=handbook, got %q", cfg.Index.Collection)
	}
	if cfg.Embedding.Provider != "nebius" {
		t.Errorf("expected Provider=nebius, got %q", cfg.Embedding.Provider)
	}
	if cfg.Cache.TTLSec != 60 {
		t.Errorf("expected TTLSec=60, got %d", cfg.Cache.TTLSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DOCSEARCH_TEST_SET", "value")
	t.Setenv("DOCSEARCH_TEST_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{"a: ${DOCSEARCH_TEST_SET}", "a: value"},
		{"a: ${DOCSEARCH_TEST_SET:-fallback}", "a: value"},
		{"a: ${DOCSEARCH_TEST_EMPTY:-fallback}", "a: fallback"},
		{"a: ${DOCSEARCH_TEST_UNSET:-}", "a: "},
		{"a: ${DOCSEARCH_TEST_UNSET}", "a: "},
		{"a: plain", "a: plain"},
	}
	for _, tt := range tests {
		if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Setenv("DOCSEARCH_TEST_QDRANT_URL", "http://qdrant:6334")

	data := []byte(`
http:
  port: ${DOCSEARCH_TEST_PORT:-3000}
index:
  url: ${DOCSEARCH_TEST_QDRANT_URL}
  collection: handbook
embedding:
  model: bge-m3
  dimensions: 1024
auth:
  api_keys: ["k1"]
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 3000 {
		t.Errorf("expected Port=3000, got %d", cfg.HTTP.Port)
	}
	if cfg.Index.URL != "http://qdrant:6334" {
		t.Errorf("expected URL from env, got %q", cfg.Index.URL)
	}
	if cfg.Index.Driver != DriverQdrant {
		t.Errorf("expected default driver, got %q", cfg.Index.Driver)
	}
	if cfg.Embedding.Dimensions != 1024 {
		t.Errorf("expected Dimensions=1024, got %d", cfg.Embedding.Dimensions)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "k1" {
		t.Errorf("unexpected api keys: %v", cfg.Auth.APIKeys)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("index:\n  url: http://q:6334\n")); err == nil {
		t.Error("expected validation error for missing model")
	}
}
