package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
	"howett.net/plist"

	"github.com/tatsh/tmu/pkg/cdda"
)

// NewJSONToYAMLCmd creates the json2yaml command.
func NewJSONToYAMLCmd(opts *RootOpts) *cobra.Command {
	var indent int
	cmd := &cobra.Command{
		Use:     "json2yaml [file]",
		Short:   "Convert JSON to YAML",
		GroupID: "data",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := inputReader(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()
			var value any
			if err := json.NewDecoder(r).Decode(&value); err != nil {
				return errors.Errorf("parsing JSON: %w", err)
			}
			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(indent)
			if err := encoder.Encode(value); err != nil {
				return errors.Errorf("writing YAML: %w", err)
			}
			return encoder.Close()
		},
	}
	cmd.Flags().IntVarP(&indent, "indent", "i", 2, "indent width in spaces")
	return cmd
}

// NewYAMLToJSONCmd creates the yaml2json command.
func NewYAMLToJSONCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "yaml2json [file]",
		Short:   "Convert YAML to JSON",
		GroupID: "data",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := inputReader(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()
			var value any
			if err := yaml.NewDecoder(r).Decode(&value); err != nil {
				return errors.Errorf("parsing YAML: %w", err)
			}
			out, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return errors.Errorf("writing JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

// NewPlistToJSONCmd creates the pl2json command. Property list data values
// are not converted.
func NewPlistToJSONCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "pl2json [file]",
		Short:   "Convert a property list file to JSON",
		GroupID: "data",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := inputReader(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()
			data, err := io.ReadAll(r)
			if err != nil {
				return errors.Errorf("reading input: %w", err)
			}
			var value any
			if _, err := plist.Unmarshal(data, &value); err != nil {
				return errors.Errorf("parsing property list: %w", err)
			}
			out, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return errors.Errorf("a non-JSON serialisable item is present: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

// NewAddCDDATimesCmd creates the add-cdda-times command.
func NewAddCDDATimesCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "add-cdda-times [times...]",
		Short:   "Add MM:SS:FF timestamps together",
		GroupID: "data",
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := cdda.AddTimes(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), total)
			return nil
		},
	}
}

// NewCDDBQueryCmd creates the cddb-query command.
func NewCDDBQueryCmd(opts *RootOpts) *cobra.Command {
	var (
		host     string
		username string
	)
	cmd := &cobra.Command{
		Use:     "cddb-query <disc-id...>",
		Short:   "Display a CDDB result in a simple JSON format",
		GroupID: "data",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &cdda.CDDBClient{Host: host, Username: username}
			if cfg := opts.Config.CDDB; cfg != nil {
				if client.Host == "" {
					client.Host = cfg.Host
				}
				if client.Username == "" {
					client.Username = cfg.Username
				}
			}
			result, err := client.Query(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return errors.Errorf("writing JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&host, "host", "H", "", "CDDB hostname")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username sent to the CDDB server")
	return cmd
}
