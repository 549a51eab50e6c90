// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration file actions",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration settings",
	Long: `Show the effective configuration settings after filling the
default values and applying the CUWEB_ environment variables. Secrets
such as the database salt and tokens secret are redacted.`,
	RunE: showConfig,
	Args: cobra.NoArgs,
}

func showConfig(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	b, err := c.RedactedYAML()
	if err != nil {
		return fmt.Errorf("serializing configs: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func init() {
	configCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}
