package docsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type openAIConfig struct {
	baseURL string
	apiKey  string
	model   string
}

type clientConfig struct {
	driver   string // "qdrant" or "valkey"
	url      string
	apiKey   string
	addrs    []string
	password string

	collection       string
	readinessTimeout time.Duration

	embedder    Embedder
	openai      *openAIConfig
	dimensions  int
	instruction string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithQdrant configures the client to query a Qdrant instance over gRPC.
// url is the base URL, e.g. http://localhost:6334.
func WithQdrant(url, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverQdrant
		c.url = url
		c.apiKey = apiKey
	})
}

// WithValkey configures the client to query a Valkey search index.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCollection sets the collection to search. Default: "docs".
func WithCollection(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.collection = name
	})
}

// WithReadinessTimeout bounds the initial index readiness wait. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithEmbedder sets a custom query embedding provider.
// Takes precedence over WithOpenAI.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAI uses an OpenAI-compatible embeddings API.
func WithOpenAI(baseURL, apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openai = &openAIConfig{baseURL: baseURL, apiKey: apiKey, model: model}
	})
}

// WithDimensions sets the expected embedding dimension.
// Zero (default) accepts whatever the model returns at load time.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithQueryInstruction prepends a task prefix to every query before embedding.
func WithQueryInstruction(instruction string) Option {
	return optionFunc(func(c *clientConfig) {
		c.instruction = instruction
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
