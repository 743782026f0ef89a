// Package qdrant implements the vector index driver over the official Qdrant gRPC client.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/docsearch/internal/db"
)

const defaultGRPCPort = 6334

// Compile-time checks.
var (
	_ db.Searcher = (*Store)(nil)
	_ db.Pinger   = (*Store)(nil)
)

// Config holds connection parameters for a Qdrant store.
type Config struct {
	// URL is http(s)://host[:port]; https enables TLS.
	URL    string
	APIKey string
}

// pointsAPI is the subset of *qdrant.Client the store relies on.
type pointsAPI interface {
	Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	HealthCheck(ctx context.Context) (*qdrant.HealthCheckReply, error)
	Close() error
}

// Store implements db.Searcher against a Qdrant collection.
type Store struct {
	api pointsAPI
}

// NewStore creates a Qdrant store. The gRPC connection is established lazily.
func NewStore(cfg Config) (*Store, error) {
	host, port, useTLS, err := parseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   host,
		Port:                   port,
		APIKey:                 cfg.APIKey,
		UseTLS:                 useTLS,
		SkipCompatibilityCheck: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{api: client}, nil
}

// Ping checks connectivity via the Qdrant health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.api.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

// WaitForReady polls Ping until Qdrant responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for qdrant: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Close releases the gRPC connection.
func (s *Store) Close() {
	_ = s.api.Close()
}

// parseURL splits a base URL into gRPC host, port and TLS flag.
func parseURL(raw string) (host string, port int, useTLS bool, err error) {
	if raw == "" {
		return "", 0, false, errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, false, fmt.Errorf("parse url: %w", err)
	}
	switch u.Scheme {
	case "http":
	case "https":
		useTLS = true
	default:
		return "", 0, false, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	host = u.Hostname()
	if host == "" {
		return "", 0, false, fmt.Errorf("url %q has no host", raw)
	}

	port = defaultGRPCPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return "", 0, false, fmt.Errorf("invalid port in %q", net.JoinHostPort(host, p))
		}
	}
	return host, port, useTLS, nil
}
