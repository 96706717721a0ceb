// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/supportchat/internal/api"
	"github.com/jeranaias/supportchat/internal/config"
	"github.com/jeranaias/supportchat/internal/ui/chat"
	"github.com/jeranaias/supportchat/internal/ui/styles"
)

func newChatCmd(opts *Options) *cobra.Command {
	var (
		serverURL string
		plain     bool
	)

	cmd := &cobra.Command{
		Use:         "chat",
		Short:       "Talk to the support agent",
		Long:        "Opens the full-screen conversation view. With --plain, or when stdin is not a terminal, questions are read one line at a time instead.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationScreen: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := opts.newClient(serverURL)
			if plain || !IsTTY() {
				return runPlainChat(cmd.Context(), cmd.OutOrStdout(), client, opts.typeDelay())
			}
			return runChatView(cmd.Context(), opts.Config, client)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "chat server URL (default from config)")
	cmd.Flags().BoolVar(&plain, "plain", false, "line mode instead of the full-screen view")
	return cmd
}

// runChatView runs the Bubble Tea conversation view until the user quits.
func runChatView(ctx context.Context, cfg *config.Config, client *api.Client) error {
	m := chat.New(chat.Deps{
		Client:      client,
		Theme:       styles.NewTheme(),
		TypeDelay:   time.Duration(cfg.UI.TypeDelayMS) * time.Millisecond,
		Welcome:     cfg.UI.Welcome,
		Contact:     cfg.UI.Contact,
		SkipWelcome: cfg.UI.SkipWelcome,
		ServerURL:   client.BaseURL(),
	})

	log.Info().Str("server", client.BaseURL()).Str("user", client.UserID()).Msg("Chat view started")

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "chat view")
	}
	return nil
}

// =============================================================================
// LINE MODE
// =============================================================================

// lineReader reads one line of input after showing a prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// historyAppender is implemented by readers that keep input history.
type historyAppender interface {
	AppendHistory(item string)
}

// runPlainChat runs the line-mode conversation on the terminal.
func runPlainChat(ctx context.Context, out io.Writer, client chat.ChatClient, delay time.Duration) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	return runREPL(ctx, line, out, client, delay)
}

// runREPL reads questions from r until EOF, Ctrl+C or /quit, printing each
// reply to out.
func runREPL(ctx context.Context, r lineReader, out io.Writer, client chat.ChatClient, delay time.Duration) error {
	fmt.Fprintln(out, DimStyle.Render("Ask a question. Type /quit to leave."))

	userPrompt := "You: "
	for {
		input, err := r.Prompt(userPrompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read input")
		}

		question := strings.TrimSpace(input)
		switch question {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}
		if h, ok := r.(historyAppender); ok {
			h.AppendHistory(input)
		}

		a := answer(ctx, client, input)
		fmt.Fprint(out, BotLabelStyle.Render("Support:")+" ")
		if err := a.print(ctx, out, delay); err != nil {
			return err
		}
	}
}

// replHistoryPath returns where line-mode input history is kept, or ""
// when the config directory is unavailable.
func replHistoryPath() string {
	dir, err := config.Dir()
	if err != nil {
		return ""
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "repl_history")
}
