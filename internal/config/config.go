// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/jeranaias/supportchat/internal/util"
)

// EnvPrefix is the prefix of every supportchat environment variable.
const EnvPrefix = "SUPPORTCHAT_"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete supportchat configuration.
type Config struct {
	Server   ServerConfig   `toml:"server" json:"server" envPrefix:"SERVER_"`
	Provider ProviderConfig `toml:"provider" json:"provider" envPrefix:"PROVIDER_"`
	Storage  StorageConfig  `toml:"storage" json:"storage" envPrefix:"STORAGE_"`
	UI       UIConfig       `toml:"ui" json:"ui" envPrefix:"UI_"`
	Log      LogConfig      `toml:"log" json:"log" envPrefix:"LOG_"`

	// Recommendations are the starter questions served to new chats.
	Recommendations []string `toml:"recommendations" json:"recommendations" env:"RECOMMENDATIONS" envSeparator:"|"`
}

// ServerConfig configures the HTTP proxy.
type ServerConfig struct {
	Host string `toml:"host" json:"host" env:"HOST"`
	Port int    `toml:"port" json:"port" env:"PORT"`

	// StaticDir is served at / when set.
	StaticDir string `toml:"static_dir" json:"static_dir" env:"STATIC_DIR"`

	CORSOrigins []string `toml:"cors_origins" json:"cors_origins" env:"CORS_ORIGINS"`

	// RateLimit is the number of requests per minute allowed per client IP.
	// Zero disables rate limiting.
	RateLimit int `toml:"rate_limit" json:"rate_limit" env:"RATE_LIMIT"`
	RateBurst int `toml:"rate_burst" json:"rate_burst" env:"RATE_BURST"`

	ReadTimeoutSecs  int `toml:"read_timeout_secs" json:"read_timeout_secs" env:"READ_TIMEOUT_SECS"`
	WriteTimeoutSecs int `toml:"write_timeout_secs" json:"write_timeout_secs" env:"WRITE_TIMEOUT_SECS"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ProviderConfig selects and configures the generative API.
type ProviderConfig struct {
	// Name is the primary provider: gemini, openai or static.
	Name string `toml:"name" json:"name" env:"NAME"`

	// Fallbacks are tried in order when the primary fails.
	Fallbacks []string `toml:"fallbacks" json:"fallbacks" env:"FALLBACKS"`

	GeminiAPIKey   string `toml:"gemini_api_key" json:"gemini_api_key" env:"GEMINI_API_KEY"`
	GeminiModel    string `toml:"gemini_model" json:"gemini_model" env:"GEMINI_MODEL"`
	GeminiEndpoint string `toml:"gemini_endpoint" json:"gemini_endpoint" env:"GEMINI_ENDPOINT"`

	OpenAIAPIKey  string `toml:"openai_api_key" json:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `toml:"openai_base_url" json:"openai_base_url" env:"OPENAI_BASE_URL"`
	OpenAIModel   string `toml:"openai_model" json:"openai_model" env:"OPENAI_MODEL"`

	// StaticReply is returned by the static provider.
	StaticReply string `toml:"static_reply" json:"static_reply" env:"STATIC_REPLY"`

	MaxOutputTokens   int    `toml:"max_output_tokens" json:"max_output_tokens" env:"MAX_OUTPUT_TOKENS"`
	SystemInstruction string `toml:"system_instruction" json:"system_instruction" env:"SYSTEM_INSTRUCTION"`
	Acknowledgement   string `toml:"acknowledgement" json:"acknowledgement" env:"ACKNOWLEDGEMENT"`

	// FallbackReply is sent as the response when every provider fails.
	FallbackReply string `toml:"fallback_reply" json:"fallback_reply" env:"FALLBACK_REPLY"`

	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" env:"TIMEOUT_SECS"`
}

// StorageConfig configures the chat history database.
type StorageConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" env:"ENABLED"`
	Path    string `toml:"path" json:"path" env:"PATH"`
}

// UIConfig configures the terminal client.
type UIConfig struct {
	ServerURL string `toml:"server_url" json:"server_url" env:"SERVER_URL"`

	// TypeDelayMS is the pause between typewriter steps.
	TypeDelayMS int `toml:"type_delay_ms" json:"type_delay_ms" env:"TYPE_DELAY_MS"`

	// UserID tags this client's messages in the chat history. A random ID
	// is generated per session when empty.
	UserID string `toml:"user_id" json:"user_id" env:"USER_ID"`

	Welcome string `toml:"welcome" json:"welcome" env:"WELCOME"`
	Contact string `toml:"contact" json:"contact" env:"CONTACT"`

	// SkipWelcome starts directly in the conversation.
	SkipWelcome bool `toml:"skip_welcome" json:"skip_welcome" env:"SKIP_WELCOME"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" json:"level" env:"LEVEL"`
	Format string `toml:"format" json:"format" env:"FORMAT"`
	File   string `toml:"file" json:"file" env:"FILE"`
}

// legacyEnv holds the unprefixed variables earlier deployments used.
type legacyEnv struct {
	Port         int    `env:"PORT"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultPort        = 3000
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultTypeDelayMS = 15
)

// DefaultSystemInstruction primes the assistant for Rooman support.
const DefaultSystemInstruction = `You are the Rooman Support Assistant, an AI agent for Rooman Technologies (rooman.net).
Your goal is to assist users with their queries about Rooman's services, training, and certifications.

**About Rooman Technologies:**
- Mission: To be a world-class leader in training and development.
- Vision: To make a significant contribution to the growth of the IT industry by providing high-quality training.
- Services: IT Training, Certification (Cisco, Microsoft, Red Hat, etc.), Staffing, and Software Development.
- Key Values: Innovation, Quality, Integrity.

**Guidelines:**
1. **Be Helpful and Professional**: Answer questions clearly and concisely.
2. **Onboarding**: If the user is new, welcome them to Rooman Technologies.
3. **Escalation**: If a query is too complex, technical, or requires human intervention (e.g., "I want a refund", "My server is down", "Detailed architectural advice"), politely escalate the query.
   - Say: "This query seems complex. I am escalating this to a human support agent. They will contact you shortly."
4. **FAQs**: Be ready to answer common questions about course fees, duration, and placement assistance.
5. **Tone**: Friendly, professional, and tech-savvy.

**Initial Recommendations (if asked):**
- "What courses do you offer?"
- "How can I get certified?"
- "Do you provide placement assistance?"
`

const (
	DefaultAcknowledgement = "Understood. I am ready to assist as the Rooman Support Assistant."
	DefaultFallbackReply   = "I'm sorry, I'm having trouble connecting to the server right now. Please try again later."
)

const defaultWelcome = `# Welcome to Rooman Support

Ask about **courses**, **certifications** and **placement assistance**.

Press **Enter** to start chatting.`

const defaultContact = `# Contact us

- **Website:** rooman.net
- **Email:** info@rooman.net

Press **Esc** to close.`

// DefaultRecommendations are the starter questions.
var DefaultRecommendations = []string{
	"What courses does Rooman offer?",
	"How do I enroll in a certification program?",
	"Tell me about Rooman's placement support.",
	"Where are your centers located?",
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "127.0.0.1",
			Port:             DefaultPort,
			CORSOrigins:      []string{"*"},
			RateLimit:        100,
			RateBurst:        20,
			ReadTimeoutSecs:  30,
			WriteTimeoutSecs: 120,
		},
		Provider: ProviderConfig{
			Name:              "gemini",
			GeminiModel:       DefaultGeminiModel,
			OpenAIModel:       DefaultOpenAIModel,
			MaxOutputTokens:   500,
			SystemInstruction: DefaultSystemInstruction,
			Acknowledgement:   DefaultAcknowledgement,
			FallbackReply:     DefaultFallbackReply,
			TimeoutSecs:       60,
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "~/.supportchat/chat_history.db",
		},
		UI: UIConfig{
			ServerURL:   fmt.Sprintf("http://127.0.0.1:%d", DefaultPort),
			TypeDelayMS: DefaultTypeDelayMS,
			Welcome:     defaultWelcome,
			Contact:     defaultContact,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Recommendations: append([]string(nil), DefaultRecommendations...),
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the supportchat configuration directory.
func Dir() (string, error) {
	return util.ExpandHome("~/.supportchat")
}

// DefaultPath returns the default TOML config path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the config file at path (the default path when empty), applies
// environment overrides and validates the result. A missing file is not an
// error; the defaults are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, errors.Wrapf(err, "config file %s", path)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path over cfg. Keys missing from the
// file keep their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnvOverrides applies SUPPORTCHAT_* variables and then the legacy
// unprefixed ones. Prefixed variables win.
func (c *Config) ApplyEnvOverrides() error {
	var legacy legacyEnv
	if err := env.Parse(&legacy); err != nil {
		return errors.Wrap(err, "parse environment")
	}
	if legacy.Port != 0 {
		c.Server.Port = legacy.Port
	}
	if legacy.GeminiAPIKey != "" {
		c.Provider.GeminiAPIKey = legacy.GeminiAPIKey
	}
	if legacy.OpenAIAPIKey != "" {
		c.Provider.OpenAIAPIKey = legacy.OpenAIAPIKey
	}

	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Wrap(err, "parse environment")
	}
	return nil
}

// Save writes cfg as TOML to path with owner-only permissions.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0o600)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var (
	validProviders  = map[string]bool{"gemini": true, "openai": true, "static": true}
	validLogLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		add("server.port", "must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		add("server.rate_limit", "must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		add("server.rate_burst", "must be at least 1 when rate limiting is on")
	}
	if c.Server.ReadTimeoutSecs < 0 || c.Server.WriteTimeoutSecs < 0 {
		add("server", "timeouts must not be negative")
	}

	if !validProviders[c.Provider.Name] {
		add("provider.name", "invalid provider %q, must be one of: gemini, openai, static", c.Provider.Name)
	}
	for i, name := range c.Provider.Fallbacks {
		if !validProviders[name] {
			add(fmt.Sprintf("provider.fallbacks[%d]", i), "invalid provider %q", name)
		}
	}
	if c.Provider.MaxOutputTokens < 1 {
		add("provider.max_output_tokens", "must be positive")
	}
	if c.Provider.TimeoutSecs < 1 {
		add("provider.timeout_secs", "must be positive")
	}
	if c.Provider.OpenAIBaseURL != "" {
		if err := validateURL(c.Provider.OpenAIBaseURL); err != nil {
			add("provider.openai_base_url", "%v", err)
		}
	}

	if c.Storage.Enabled && c.Storage.Path == "" {
		add("storage.path", "required when storage is enabled")
	}

	if err := validateURL(c.UI.ServerURL); err != nil {
		add("ui.server_url", "%v", err)
	}
	if c.UI.TypeDelayMS < 0 {
		add("ui.type_delay_ms", "must not be negative")
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		add("log.level", "invalid level %q", c.Log.Level)
	}
	if !validLogFormats[c.Log.Format] {
		add("log.format", "invalid format %q, must be text or json", c.Log.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrap(err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

// String returns the configuration as JSON with API keys redacted.
func (c *Config) String() string {
	safe := *c
	if safe.Provider.GeminiAPIKey != "" {
		safe.Provider.GeminiAPIKey = "[REDACTED]"
	}
	if safe.Provider.OpenAIAPIKey != "" {
		safe.Provider.OpenAIAPIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
