// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"slices"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiOptions configures a GeminiProvider.
type GeminiOptions struct {
	APIKey            string
	Model             string
	Endpoint          string
	MaxOutputTokens   int
	SystemInstruction string
	Acknowledgement   string
}

// GeminiProvider answers through the Gemini API.
type GeminiProvider struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	history []*genai.Content
}

// NewGemini creates a Gemini client. The client is shared by every request.
func NewGemini(ctx context.Context, opts GeminiOptions) (*GeminiProvider, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	model := client.GenerativeModel(opts.Model)
	if opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxOutputTokens))
	}

	return &GeminiProvider{
		client:  client,
		model:   model,
		name:    opts.Model,
		history: primedHistory(opts.SystemInstruction, opts.Acknowledgement),
	}, nil
}

// primedHistory returns the two turns every chat starts with: the system
// instruction as a user turn and the model's acknowledgement.
func primedHistory(instruction, ack string) []*genai.Content {
	if instruction == "" {
		return nil
	}
	return []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(instruction)}},
		{Role: "model", Parts: []genai.Part{genai.Text(ack)}},
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Reply starts a fresh chat from the primed history and sends message.
func (p *GeminiProvider) Reply(ctx context.Context, message string) (string, error) {
	cs := p.model.StartChat()
	cs.History = slices.Clone(p.history)

	log.Debug().Str("model", p.name).Int("chars", len(message)).Msg("gemini request")
	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", errors.Wrap(err, "gemini send message")
	}
	return responseText(resp)
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyReply
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyReply
	}
	return b.String(), nil
}

// Models lists the models that support generateContent.
func (p *GeminiProvider) Models(ctx context.Context) ([]string, error) {
	var names []string
	it := p.client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "list gemini models")
		}
		if slices.Contains(m.SupportedGenerationMethods, "generateContent") {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// Close closes the underlying client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
