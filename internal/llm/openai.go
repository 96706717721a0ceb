// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIOptions configures an OpenAIProvider.
type OpenAIOptions struct {
	APIKey            string
	BaseURL           string
	Model             string
	MaxTokens         int
	SystemInstruction string
}

// OpenAIProvider answers through an OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	maxTokens int
	system    string
}

// NewOpenAI creates the provider. The key may be empty for compatible
// servers that do not check it.
func NewOpenAI(opts OpenAIOptions) *OpenAIProvider {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(cfg),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		system:    opts.SystemInstruction,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) messages(message string) []openai.ChatCompletionMessage {
	var msgs []openai.ChatCompletionMessage
	if p.system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.system})
	}
	return append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
}

func (p *OpenAIProvider) Reply(ctx context.Context, message string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  p.messages(message),
		MaxTokens: p.maxTokens,
	}

	log.Debug().Str("model", p.model).Int("chars", len(message)).Msg("openai request")
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
