package coach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/config"
)

var (
	// ErrQuotaExceeded is returned when the upstream model reports it is
	// rate limited or out of quota. It is never retried.
	ErrQuotaExceeded = errors.New("coach quota exceeded")
	// ErrOffline is returned by the offline provider for every request.
	ErrOffline = errors.New("coach is offline")
	// ErrNoAPIKey is returned when a remote provider has no credentials.
	ErrNoAPIKey = errors.New("coach API key not configured")
)

// Request is a single completion request
type Request struct {
	Prompt string
	System string
}

// Response is the model's answer
type Response struct {
	Text  string
	Model string
}

// Provider produces completions for the coach
type Provider interface {
	ID() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// NewProvider builds the provider named in cfg, wrapped with retry and
// timeout handling. A missing API key selects the offline provider.
func NewProvider(cfg config.CoachConfig, apiKey string) (Provider, error) {
	switch cfg.Provider {
	case "offline":
		return OfflineProvider{}, nil
	case "gemini", "":
		if apiKey == "" {
			return OfflineProvider{}, nil
		}
		inner := NewGeminiProvider(cfg.Model, apiKey)
		return NewResilientProvider(inner, cfg.MaxAttempts, time.Duration(cfg.TimeoutSeconds)*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown coach provider %q", cfg.Provider)
	}
}

// OfflineProvider never reaches a model; the coach answers from its
// keyword table instead.
type OfflineProvider struct{}

func (OfflineProvider) ID() string {
	return "offline"
}

func (OfflineProvider) Complete(context.Context, Request) (*Response, error) {
	return nil, ErrOffline
}
