// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

const credsRenewalMessage = `
The admin role credentials are read from the .pgpass file in the
database pass-dir. Passwords of the admin and normal roles are renewed
randomly and written to a .pgpass.new file which replaces the .pgpass
file only after the database initialization succeeds.`

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init may be used respectively.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an empty users database schema",
	Long: `Initialize an empty users database schema. The database
connection information are read from the configuration file and the
schema which is named after the database major version is dropped and
created again, so all existing users will be removed.
` + credsRenewalMessage,
	RunE: initDB,
	Args: cobra.NoArgs,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize the users database with development data",
	Long: `Initialize the users database with development data.
It works like the init sub-command and also registers a sample user
whose credential is derived with the configured credential settings.
` + credsRenewalMessage,
	RunE: initDevDB,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if err = c.NewInitDBUseCase().Init(ctx); err != nil {
		return fmt.Errorf("initializing DB: %w", err)
	}
	return nil
}

func initDevDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if err = c.NewInitDBUseCase().InitDev(ctx); err != nil {
		return fmt.Errorf("initializing DB with dev data: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initCmd, initDevCmd)
	rootCmd.AddCommand(dbCmd)
}
