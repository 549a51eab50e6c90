// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the cuweb
// users management web service. Commands are organized using the cobra
// library. The root command starts the web server itself while the
// "db" sub-command initializes the database, the "credential"
// sub-command derives or verifies password credentials offline, and
// the "config" sub-command shows the effective settings.
//
//	./cuweb [-c /path/of/main/config.yaml]           # start web server
//	./cuweb db init [-c /path/of/main/config.yaml]
//	./cuweb db init-dev [-c /path/of/main/config.yaml]
//	./cuweb credential generate --email E < password.txt
//	./cuweb credential verify --email E --credential HEX < password.txt
//	./cuweb config show [-c /path/of/main/config.yaml]
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/momeni/clean-users/pkg/adapter/config"
	"github.com/momeni/clean-users/pkg/adapter/config/cfg1"
	"github.com/momeni/clean-users/pkg/adapter/restful/gin"
	"github.com/momeni/clean-users/pkg/adapter/restful/gin/routes"
	"github.com/momeni/clean-users/pkg/core/log"
	"github.com/momeni/clean-users/pkg/core/repo"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "cuweb",
	Short: "A users management web service",
	Long: `A users management web service which registers users, keeps
their PBKDF2-derived password credentials in a PostgreSQL database, and
authenticates them by their email address and password.
Users may be created, fetched, updated, and deleted by their ID or
email address through a REST API which is implemented with the Gin
Gonic web framework. Successful logins may be answered with a signed
access token if a tokens secret is configured.`,
	RunE:          startWebServer,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	var e *gin.Engine = c.Gin.NewEngine()
	if err = routes.Register(e, p, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	log.Info(
		ctx, "starting web server",
		slog.String("address", *c.Gin.Address),
	)
	if err = e.Run(*c.Gin.Address); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// loadConfig loads the configuration file from cfgPath and installs
// the default slog logger with the configured logging level.
func loadConfig() (*cfg1.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	lvl, err := c.Logging.SlogLevel()
	if err != nil {
		return nil, err
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	slog.SetDefault(slog.New(h))
	return c, nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
