// Copyright 2026 Vaultforge Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vaultforge/vaultd/internal/config"
	"github.com/vaultforge/vaultd/internal/node"
)

func normalizeRun(_ *cobra.Command, _ []string, cfg *config.Config) {
	logger := commonRun()

	if err := node.NormalizeClaims(cfg, logger); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func normalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize-claims",
		Short: "Fold legacy claim metadata amounts into the lovelace column",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			normalizeRun(cmd, args, cfg)
		},
	}
	return cmd
}
