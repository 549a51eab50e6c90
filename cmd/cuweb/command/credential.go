// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"encoding/hex"
	"fmt"

	"github.com/momeni/clean-users/pkg/adapter/config/cfg1"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/spf13/cobra"
)

var (
	credEmail string
	credHex   string
)

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Offline password credential actions",
	Long: `Offline password credential actions can be chosen by
sub-commands. They use the credentials settings of the configuration
file (iterations count and database salt) without connecting to the
database. The password is read from the standard input.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Derive the credential of an email and password",
	Long: `Derive the credential of an email and password and print it
in hexadecimal encoding. The email address is canonicalized if the
canonical-emails setting of the users use case is enabled.`,
	RunE: generateCredential,
	Args: cobra.NoArgs,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a password against a hex encoded credential",
	Long: `Verify a password against a hex encoded credential and print
true if it matches or false otherwise.`,
	RunE: verifyCredential,
	Args: cobra.NoArgs,
}

func generateCredential(cmd *cobra.Command, _ []string) error {
	c, email, err := credentialInputs()
	if err != nil {
		return err
	}
	m, err := c.Credentials.NewManager()
	if err != nil {
		return fmt.Errorf("creating credential manager: %w", err)
	}
	pw, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if pw, err = nonEmpty(pw); err != nil {
		return err
	}
	cred := m.Generate([]byte(email), pw)
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(cred))
	return nil
}

func verifyCredential(cmd *cobra.Command, _ []string) error {
	c, email, err := credentialInputs()
	if err != nil {
		return err
	}
	stored, err := hex.DecodeString(credHex)
	if err != nil {
		return fmt.Errorf("decoding credential: %w", err)
	}
	m, err := c.Credentials.NewManager()
	if err != nil {
		return fmt.Errorf("creating credential manager: %w", err)
	}
	pw, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ok := m.Verify([]byte(email), model.Credential(stored), pw)
	fmt.Fprintln(cmd.OutOrStdout(), ok)
	return nil
}

func credentialInputs() (*cfg1.Config, string, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	email := credEmail
	if *c.Usecases.Users.CanonicalEmails {
		email, err = model.CanonicalEmail(email)
	} else {
		err = model.ValidateEmail(email)
	}
	if err != nil {
		return nil, "", fmt.Errorf("email %q: %w", credEmail, err)
	}
	return c, email, nil
}

func init() {
	for _, cmd := range []*cobra.Command{generateCmd, verifyCmd} {
		cmd.Flags().StringVarP(
			&credEmail, "email", "e", "", "email address of the user",
		)
		_ = cmd.MarkFlagRequired("email")
	}
	verifyCmd.Flags().StringVar(
		&credHex, "credential", "", "hex encoded stored credential",
	)
	_ = verifyCmd.MarkFlagRequired("credential")
	credentialCmd.AddCommand(generateCmd, verifyCmd)
	rootCmd.AddCommand(credentialCmd)
}
