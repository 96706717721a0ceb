// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// FallbackProvider tries the primary provider first, then the fallbacks in
// order, returning the first reply.
type FallbackProvider struct {
	primary   Provider
	fallbacks []Provider
}

// NewFallback creates a provider chain.
func NewFallback(primary Provider, fallbacks ...Provider) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallbacks: fallbacks}
}

// Name lists the chain, e.g. "gemini>openai".
func (p *FallbackProvider) Name() string {
	names := []string{p.primary.Name()}
	for _, fb := range p.fallbacks {
		names = append(names, fb.Name())
	}
	return strings.Join(names, ">")
}

func (p *FallbackProvider) Reply(ctx context.Context, message string) (string, error) {
	reply, err := p.primary.Reply(ctx, message)
	if err == nil {
		return reply, nil
	}
	log.Warn().Err(err).Str("provider", p.primary.Name()).Msg("primary provider failed, trying fallbacks")

	lastErr := err
	for i, fb := range p.fallbacks {
		if ctx.Err() != nil {
			return "", errors.Wrap(ctx.Err(), "all providers failed")
		}
		reply, err := fb.Reply(ctx, message)
		if err == nil {
			log.Info().Int("fallback", i+1).Str("provider", fb.Name()).Msg("fallback provider succeeded")
			return reply, nil
		}
		log.Warn().Err(err).Int("fallback", i+1).Str("provider", fb.Name()).Msg("fallback provider failed")
		lastErr = err
	}
	return "", errors.Wrap(lastErr, "all providers failed, last error")
}

// Close closes every provider in the chain and returns the first error.
func (p *FallbackProvider) Close() error {
	var first error
	for _, pr := range append([]Provider{p.primary}, p.fallbacks...) {
		if err := Close(pr); err != nil && first == nil {
			first = err
		}
	}
	return first
}
