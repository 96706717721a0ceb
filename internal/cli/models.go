// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/supportchat/internal/llm"
)

func newModelsCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the Gemini models that can answer chats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := opts.Config.Provider
			gemini, err := llm.NewGemini(cmd.Context(), llm.GeminiOptions{
				APIKey:   p.GeminiAPIKey,
				Model:    p.GeminiModel,
				Endpoint: p.GeminiEndpoint,
			})
			if err != nil {
				return err
			}
			defer gemini.Close()

			names, err := gemini.Models(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
