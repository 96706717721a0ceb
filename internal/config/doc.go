// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and validation for
// supportchat.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Listen address, static files, CORS and rate limits
//   - ProviderConfig: Generative API selection, keys and prompt
//   - StorageConfig: Chat history database
//   - UIConfig: Terminal client settings
//   - LogConfig: Log level, format and file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SUPPORTCHAT_*, plus GEMINI_API_KEY,
//     OPENAI_API_KEY and PORT)
//   - ~/.supportchat/config.toml, or the file passed with --config
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	srv := server.New(cfg.Server, provider)
package config
