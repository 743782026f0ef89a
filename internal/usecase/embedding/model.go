package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// State is the lifecycle stage of the embedding model.
type State int32

const (
	// StateUnloaded is the initial state; no load was attempted.
	StateUnloaded State = iota
	// StateLoading means Load is in progress.
	StateLoading
	// StateReady means the model answered the probe and serves requests.
	StateReady
	// StateFailed means the single load attempt failed.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const probeText = "ping"

// Config holds Model settings.
type Config struct {
	Provider string
	Model    string
	// Dimensions is the expected vector length; 0 accepts whatever the probe returns.
	Dimensions int
	Logger     *zap.Logger
}

// Model owns the load lifecycle of the query embedding model.
// It is loaded exactly once; Embed fails fast with domain.ErrModelNotReady until then.
type Model struct {
	inner    domain.Embedder
	provider string
	model    string
	expected int
	state    atomic.Int32
	dim      atomic.Int64
	logger   *zap.Logger
}

// NewModel wraps an embedding provider with the load lifecycle.
func NewModel(inner domain.Embedder, cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		inner:    inner,
		provider: cfg.Provider,
		model:    cfg.Model,
		expected: cfg.Dimensions,
		logger:   logger,
	}
}

// Load runs a probe embedding and records the vector dimension.
// A second call returns domain.ErrModelAlreadyLoaded regardless of the first outcome.
func (m *Model) Load(ctx context.Context) error {
	if !m.state.CompareAndSwap(int32(StateUnloaded), int32(StateLoading)) {
		return domain.ErrModelAlreadyLoaded
	}

	start := time.Now()
	res, err := m.inner.Embed(ctx, probeText)
	if err == nil {
		err = m.checkProbe(res.Embedding)
	}
	if err != nil {
		m.state.Store(int32(StateFailed))
		metrics.EmbeddingModelReady.WithLabelValues(m.model).Set(0)
		m.logger.Error("Embedding model load failed",
			zap.String("provider", m.provider),
			zap.String("model", m.model),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("load model %s: %w", m.model, asEmbeddingFailure(err))
	}

	m.dim.Store(int64(len(res.Embedding)))
	m.state.Store(int32(StateReady))
	metrics.EmbeddingModelReady.WithLabelValues(m.model).Set(1)

	m.logger.Info("Embedding model ready",
		zap.String("provider", m.provider),
		zap.String("model", m.model),
		zap.Int("dimensions", len(res.Embedding)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (m *Model) checkProbe(vec []float32) error {
	if len(vec) == 0 {
		return errors.New("probe returned an empty vector")
	}
	if m.expected > 0 && len(vec) != m.expected {
		return fmt.Errorf("probe returned %d dimensions, expected %d", len(vec), m.expected)
	}
	return nil
}

// IsReady reports whether Load succeeded.
func (m *Model) IsReady() bool {
	return m.State() == StateReady
}

// LoadFailed reports whether the single load attempt failed.
func (m *Model) LoadFailed() bool {
	return m.State() == StateFailed
}

// State returns the current lifecycle state.
func (m *Model) State() State {
	return State(m.state.Load())
}

// Dimension returns the vector length observed at load time, or 0 before readiness.
func (m *Model) Dimension() int {
	return int(m.dim.Load())
}

// Name returns the model identifier.
func (m *Model) Name() string { return m.model }

// Embed converts text into a vector of the loaded dimension.
// The vector is returned as produced by the provider.
func (m *Model) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if !m.IsReady() {
		return domain.EmbeddingResult{}, domain.ErrModelNotReady
	}

	start := time.Now()
	res, err := m.inner.Embed(ctx, text)
	duration := time.Since(start)

	if err == nil && len(res.Embedding) != m.Dimension() {
		err = fmt.Errorf("vector has %d dimensions, model loaded with %d", len(res.Embedding), m.Dimension())
	}
	if err != nil {
		m.logger.Error("Embedding request failed",
			zap.String("provider", m.provider),
			zap.String("model", m.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", asEmbeddingFailure(err))
	}

	return res, nil
}

// HealthCheck delegates to the provider when it supports health checks.
func (m *Model) HealthCheck(ctx context.Context) error {
	if hc, ok := m.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding provider: %w", err)
		}
	}
	return nil
}

// asEmbeddingFailure makes err match domain.ErrEmbeddingFailed.
func asEmbeddingFailure(err error) error {
	if errors.Is(err, domain.ErrEmbeddingFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
}
