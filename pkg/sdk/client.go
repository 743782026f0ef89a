package docsearch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/db"
	dbQdrant "github.com/kailas-cloud/docsearch/internal/db/qdrant"
	dbValkey "github.com/kailas-cloud/docsearch/internal/db/valkey"
	"github.com/kailas-cloud/docsearch/internal/domain"
	searchrepo "github.com/kailas-cloud/docsearch/internal/repository/search"
	openaiEmb "github.com/kailas-cloud/docsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/docsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
)

const (
	driverQdrant = "qdrant"
	driverValkey = "valkey"

	defaultCollection       = "docs"
	defaultReadinessTimeout = 10 * time.Second
	customModelName         = "custom"
)

// Внутренние интерфейсы для подмены в тестах.
type indexStore interface {
	db.Searcher
	db.Pinger
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

type searchUseCase interface {
	Search(ctx context.Context, query, rawLimit string) (searchuc.Response, error)
}

// Client is the docsearch SDK entry point.
type Client struct {
	store     indexStore
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, waits for the index and loads the query embedding model.
// The provided context bounds both the readiness wait and the model load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		collection:       defaultCollection,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("docsearch: index required (use WithQdrant or WithValkey)")
	}
	emb, modelName, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, repoCfg, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docsearch: index not ready: %w", err)
	}

	model := embeddinguc.NewModel(emb, embeddinguc.Config{
		Provider:   cfg.providerName(),
		Model:      modelName,
		Dimensions: cfg.dimensions,
		Logger:     zap.NewNop(),
	})
	if err := model.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("docsearch: load model: %w", err)
	}

	return wireClient(store, repoCfg, model, obs), nil
}

func (c *clientConfig) providerName() string {
	if c.embedder != nil {
		return customModelName
	}
	return "openai"
}

func buildEmbedder(cfg *clientConfig) (domain.Embedder, string, error) {
	var (
		emb   domain.Embedder
		model string
	)
	switch {
	case cfg.embedder != nil:
		emb, model = &embedderAdapter{inner: cfg.embedder}, customModelName
	case cfg.openai != nil:
		emb = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openai.apiKey,
			BaseURL:    cfg.openai.baseURL,
			Model:      cfg.openai.model,
			Dimensions: cfg.dimensions,
		})
		model = cfg.openai.model
	default:
		return nil, "", errors.New("docsearch: embedder required (use WithEmbedder or WithOpenAI)")
	}

	if cfg.instruction != "" {
		emb = domain.NewInstructionEmbedder(emb, cfg.instruction)
	}
	return emb, model, nil
}

func createStore(cfg *clientConfig) (indexStore, searchrepo.Config, error) {
	switch cfg.driver {
	case driverQdrant:
		s, err := dbQdrant.NewStore(dbQdrant.Config{URL: cfg.url, APIKey: cfg.apiKey})
		if err != nil {
			return nil, searchrepo.Config{}, fmt.Errorf("docsearch: create qdrant store: %w", err)
		}
		return s, searchrepo.Config{
			Driver:       driverQdrant,
			Index:        cfg.collection,
			ReturnFields: searchuc.PayloadFields,
		}, nil
	case driverValkey:
		s, err := dbValkey.NewStore(dbValkey.Config{Addrs: cfg.addrs, Password: cfg.password})
		if err != nil {
			return nil, searchrepo.Config{}, fmt.Errorf("docsearch: create valkey store: %w", err)
		}
		return s, searchrepo.Config{
			Driver:       driverValkey,
			Index:        cfg.collection + ":idx",
			KeyPrefix:    cfg.collection + ":",
			ReturnFields: searchuc.PayloadFields,
		}, nil
	default:
		return nil, searchrepo.Config{}, fmt.Errorf("docsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store indexStore, repoCfg searchrepo.Config, model *embeddinguc.Model, obs *observer) *Client {
	return &Client{
		store:     store,
		searchSvc: searchuc.New(searchrepo.New(store, repoCfg), model),
		healthSvc: healthuc.New(store, model, model),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search embeds query and returns up to limit ranked results.
// limit 0 selects the default (5); otherwise it must be within 1..20.
func (c *Client) Search(ctx context.Context, query string, limit int) (resp *SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err, "limit", limit) }()

	rawLimit := ""
	if limit != 0 {
		rawLimit = strconv.Itoa(limit)
	}

	r, err := c.searchSvc.Search(ctx, query, rawLimit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	resp = toSearchResponse(&r)
	c.obs.observeResults(len(resp.Results))
	return resp, nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
