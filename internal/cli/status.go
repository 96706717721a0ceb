// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *Options) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that the chat server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := opts.newClient(serverURL)
			health, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %s\n", "Server:", client.BaseURL())
			fmt.Fprintf(out, "%-10s %s\n", "Status:", health.Status)
			fmt.Fprintf(out, "%-10s %s\n", "Version:", health.Version)
			fmt.Fprintf(out, "%-10s %s\n", "Provider:", health.Provider)
			fmt.Fprintf(out, "%-10s %s\n", "History:", health.Storage)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "chat server URL (default from config)")
	return cmd
}
