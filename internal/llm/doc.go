// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm wraps the generative APIs that answer support questions.
//
// Every provider answers one message at a time with no conversation history.
// The Gemini provider primes each chat with the support system instruction
// as a user turn followed by a fixed model acknowledgement.
//
// # Key Types
//
//   - Provider: Answers a single message
//   - GeminiProvider: Google Gemini through generative-ai-go
//   - OpenAIProvider: Any OpenAI-compatible chat completions API
//   - StaticProvider: Fixed reply, for demos and tests
//   - FallbackProvider: Tries providers in order until one answers
//
// # Usage
//
//	p, err := llm.New(ctx, cfg.Provider)
//	if err != nil {
//	    return err
//	}
//	defer llm.Close(p)
//
//	reply, err := p.Reply(ctx, "What courses do you offer?")
package llm
