// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/momeni/clean-users/pkg/core/model"
	"golang.org/x/term"
)

// readPassword reads a password from the in reader. Terminals are read
// without echo after printing a prompt to w, while other readers (such
// as pipes) are read up to the first line break. The password may be
// empty.
func readPassword(in io.Reader, w io.Writer) ([]byte, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(w, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		return pw, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func nonEmpty(pw []byte) ([]byte, error) {
	if len(pw) == 0 {
		return nil, model.ErrEmptyPassword
	}
	return pw, nil
}
