// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/supportchat/internal/config"
)

var (
	// ErrMissingAPIKey means a provider was selected without credentials.
	ErrMissingAPIKey = errors.New("api key not configured")

	// ErrEmptyReply means the API answered without any text.
	ErrEmptyReply = errors.New("empty reply")

	// ErrUnknownProvider means the configured provider name is not known.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Provider answers a single support message.
type Provider interface {
	Name() string
	Reply(ctx context.Context, message string) (string, error)
}

// New builds the configured provider, wrapped in a FallbackProvider when
// fallbacks are listed. Fallbacks that cannot be built are skipped with a
// warning; the primary must build.
func New(ctx context.Context, cfg config.ProviderConfig) (Provider, error) {
	primary, err := build(ctx, cfg.Name, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "provider %s", cfg.Name)
	}
	if len(cfg.Fallbacks) == 0 {
		return primary, nil
	}

	var fallbacks []Provider
	for _, name := range cfg.Fallbacks {
		p, err := build(ctx, name, cfg)
		if err != nil {
			log.Warn().Err(err).Str("provider", name).Msg("skipping fallback provider")
			continue
		}
		fallbacks = append(fallbacks, p)
	}
	if len(fallbacks) == 0 {
		return primary, nil
	}
	return NewFallback(primary, fallbacks...), nil
}

func build(ctx context.Context, name string, cfg config.ProviderConfig) (Provider, error) {
	switch name {
	case "gemini":
		return NewGemini(ctx, GeminiOptions{
			APIKey:            cfg.GeminiAPIKey,
			Model:             cfg.GeminiModel,
			Endpoint:          cfg.GeminiEndpoint,
			MaxOutputTokens:   cfg.MaxOutputTokens,
			SystemInstruction: cfg.SystemInstruction,
			Acknowledgement:   cfg.Acknowledgement,
		})
	case "openai":
		return NewOpenAI(OpenAIOptions{
			APIKey:            cfg.OpenAIAPIKey,
			BaseURL:           cfg.OpenAIBaseURL,
			Model:             cfg.OpenAIModel,
			MaxTokens:         cfg.MaxOutputTokens,
			SystemInstruction: cfg.SystemInstruction,
		}), nil
	case "static":
		return NewStatic(cfg.StaticReply), nil
	default:
		return nil, errors.Wrap(ErrUnknownProvider, name)
	}
}

// Close releases p if it holds resources.
func Close(p Provider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// =============================================================================
// STATIC PROVIDER
// =============================================================================

// DefaultStaticReply is used when a static provider has no text configured.
const DefaultStaticReply = "Thanks for reaching out! A **support agent** will get back to you shortly."

// StaticProvider always answers with the same text.
type StaticProvider struct {
	text string
}

// NewStatic returns a provider that always replies with text.
func NewStatic(text string) *StaticProvider {
	if text == "" {
		text = DefaultStaticReply
	}
	return &StaticProvider{text: text}
}

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) Reply(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.text, nil
}
