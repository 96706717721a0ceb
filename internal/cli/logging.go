// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jeranaias/supportchat/internal/util"
)

// LogSettings configures the global logger.
type LogSettings struct {
	// Level is debug, info, warn or error.
	Level string

	// Format is text or json.
	Format string

	// File receives a copy of every event, rotated by size. Empty disables
	// file logging.
	File string

	// Quiet stops logging to the terminal. The chat view sets it so log
	// lines never land on the screen it draws.
	Quiet bool
}

// InitLogger configures the global zerolog logger. Terminal output goes to
// stderr.
func InitLogger(settings LogSettings, stderr io.Writer) error {
	level, err := parseLevel(settings.Level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer
	if !settings.Quiet {
		switch strings.ToLower(settings.Format) {
		case "", "text":
			writers = append(writers, zerolog.ConsoleWriter{
				Out:     stderr,
				NoColor: !isTerminal(stderr),
			})
		case "json":
			writers = append(writers, stderr)
		default:
			return errors.Errorf("unknown log format %q (want text or json)", settings.Format)
		}
	}

	if settings.File != "" {
		path, err := util.ExpandHome(settings.File)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrap(err, "create log directory")
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

func parseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, errors.Errorf("unknown log level %q", s)
}
