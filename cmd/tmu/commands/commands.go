// Package commands holds every tmu subcommand, one constructor per original
// tool.
package commands

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/tatsh/tmu/pkg/config"
)

// RootOpts carries shared dependencies into every command.
type RootOpts struct {
	Config *config.Config
}

// inputReader opens the first argument, or stdin when no argument is given.
func inputReader(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", args[0], err)
	}
	return f, nil
}

// inputString reads the whole input with trailing newlines removed.
func inputString(cmd *cobra.Command, args []string) (string, error) {
	r, err := inputReader(cmd, args)
	if err != nil {
		return "", err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
