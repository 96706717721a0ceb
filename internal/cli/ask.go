// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/supportchat/internal/markdown"
	"github.com/jeranaias/supportchat/internal/typewriter"
	"github.com/jeranaias/supportchat/internal/ui/chat"
)

func newAskCmd(opts *Options) *cobra.Command {
	var (
		serverURL string
		instant   bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the reply",
		Example: `  supportchat ask "How do I enroll?"
  supportchat ask --instant What courses do you offer`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if strings.TrimSpace(question) == "" {
				return errors.New("question is empty")
			}

			delay := opts.typeDelay()
			if instant {
				delay = 0
			}

			client := opts.newClient(serverURL)
			a := answer(cmd.Context(), client, question)
			if a.err != nil {
				return a.err
			}
			return a.print(cmd.Context(), cmd.OutOrStdout(), delay)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "chat server URL (default from config)")
	cmd.Flags().BoolVar(&instant, "instant", false, "print the reply at once instead of typing it")
	return cmd
}

// typeDelay returns the configured pause between typewriter steps.
func (o *Options) typeDelay() time.Duration {
	return time.Duration(o.Config.UI.TypeDelayMS) * time.Millisecond
}

// =============================================================================
// REPLIES
// =============================================================================

// reply is the outcome of one question, ready to print.
type reply struct {
	text    string
	animate bool

	// err is set when the server could not be reached. text is then the
	// apology shown to the user.
	err error
}

// answer sends question and turns the outcome into a reply the same way the
// chat view does.
func answer(ctx context.Context, client chat.ChatClient, question string) reply {
	resp, err := client.Chat(ctx, question)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("Chat request failed")
		return reply{text: chat.ApologyText, err: errors.Wrap(err, "chat request failed")}
	case resp.Error != "":
		return reply{text: "Error: " + resp.Error}
	}
	return reply{text: resp.Text(), animate: true}
}

// print writes the reply followed by a newline. Animated replies are typed
// out with delay between steps.
func (r reply) print(ctx context.Context, out io.Writer, delay time.Duration) error {
	if !r.animate {
		delay = 0
	}
	if err := typeOut(ctx, out, r.text, delay); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out)
	return err
}

// typeOut renders text as terminal output, one typewriter step at a time.
func typeOut(ctx context.Context, out io.Writer, text string, delay time.Duration) error {
	w := markdown.NewTerminalWriter(boldStyler())
	written := 0
	var writeErr error
	err := typewriter.Play(ctx, markdown.ToHTML(text), delay, func(chunk string) {
		w.Write(chunk)
		s := w.String()
		if writeErr == nil {
			_, writeErr = io.WriteString(out, s[written:])
		}
		written = len(s)
	})
	if err != nil {
		return err
	}
	return writeErr
}
