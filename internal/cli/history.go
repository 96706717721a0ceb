// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/supportchat/internal/api"
	"github.com/jeranaias/supportchat/internal/export"
	"github.com/jeranaias/supportchat/internal/markdown"
)

func newHistoryCmd(opts *Options) *cobra.Command {
	var (
		serverURL string
		userID    string
		format    string
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the chat history stored by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				userID = opts.Config.UI.UserID
			}
			if userID == "" {
				return errors.New("no user ID: pass --user or set ui.user_id")
			}

			client := opts.newClient(serverURL)
			chats, err := client.History(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if format == "" || format == "text" {
				printHistory(cmd.OutOrStdout(), chats)
				return nil
			}
			return exportHistory(cmd.OutOrStdout(), export.History{UserID: userID, Chats: chats}, format, outDir)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "chat server URL (default from config)")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user ID (default ui.user_id)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, md, json or html")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "write the export into this directory instead of stdout")
	return cmd
}

// printHistory writes each exchange as a question and its reply.
func printHistory(out io.Writer, chats []api.HistoryEntry) {
	if len(chats) == 0 {
		fmt.Fprintln(out, DimStyle.Render("No chats stored."))
		return
	}

	for i, c := range chats {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, DimStyle.Render(c.Timestamp.Local().Format("2006-01-02 15:04:05")))
		fmt.Fprintln(out, UserLabelStyle.Render("You:")+" "+c.UserMessage)

		w := markdown.NewTerminalWriter(boldStyler())
		w.Write(markdown.ToHTML(c.BotResponse))
		fmt.Fprintln(out, BotLabelStyle.Render("Support:")+" "+w.String())
	}
}

// exportHistory writes h as a document. With a directory the document is
// saved there and its path printed; otherwise it goes to out.
func exportHistory(out io.Writer, h export.History, format, dir string) error {
	exp, err := export.ForFormat(format, export.DefaultOptions())
	if err != nil {
		return err
	}

	if dir != "" {
		path, err := export.ToFile(h, exp, dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Exported to "+path)
		return nil
	}

	doc, err := exp.Export(h)
	if err != nil {
		return errors.Wrap(err, "export failed")
	}
	_, err = out.Write(doc)
	return err
}
