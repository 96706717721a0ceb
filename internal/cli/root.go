// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/supportchat/internal/api"
	"github.com/jeranaias/supportchat/internal/config"
)

// Version information, set at build time.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// defaultChatLog receives the logs of the full-screen chat view.
const defaultChatLog = "~/.supportchat/chat.log"

// annotationScreen marks commands that take over the terminal.
const annotationScreen = "screen"

// Options holds the global flags and the configuration they select.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	LogFile    string

	// Config is loaded before any subcommand runs.
	Config *config.Config
}

// NewRootCmd builds the supportchat command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "supportchat",
		Short: "Customer support chat server and terminal client",
		Long: `supportchat answers customer questions through a generative model.

Run "supportchat serve" to start the proxy server, then "supportchat chat"
to talk to it from the terminal.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.supportchat/config.toml)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.LogFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&opts.LogFile, "log-file", "", "also write logs to this file")

	root.AddCommand(
		newServeCmd(opts),
		newChatCmd(opts),
		newAskCmd(opts),
		newHistoryCmd(opts),
		newStatusCmd(opts),
		newModelsCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and reports any error on stderr.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: "+err.Error()))
		return err
	}
	return nil
}

// setup loads the configuration and configures logging. Flags override the
// [log] section of the file.
func (o *Options) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	o.Config = cfg

	settings := LogSettings{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}
	if o.LogLevel != "" {
		settings.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		settings.Format = o.LogFormat
	}
	if o.LogFile != "" {
		settings.File = o.LogFile
	}

	if _, ok := cmd.Annotations[annotationScreen]; ok {
		if plain, _ := cmd.Flags().GetBool("plain"); !plain {
			settings.Quiet = true
			if settings.File == "" {
				settings.File = defaultChatLog
			}
		}
	}

	if err := InitLogger(settings, cmd.ErrOrStderr()); err != nil {
		return err
	}
	log.Debug().Str("command", cmd.CommandPath()).Str("config", o.ConfigPath).Msg("Configuration loaded")
	return nil
}

// newClient builds an API client for serverURL, or the configured server
// when it is empty. Requests carry the configured user ID, or a fresh one
// per process.
func (o *Options) newClient(serverURL string) *api.Client {
	if serverURL == "" {
		serverURL = o.Config.UI.ServerURL
	}
	userID := o.Config.UI.UserID
	if userID == "" {
		userID = uuid.NewString()
	}
	return api.NewClient(serverURL).WithUserID(userID)
}
