package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tatsh/tmu/pkg/archive"
)

// NewUnpack0dayCmd creates the unpack-0day command.
func NewUnpack0dayCmd(opts *RootOpts) *cobra.Command {
	var removeDiz bool
	cmd := &cobra.Command{
		Use:     "unpack-0day <dir...>",
		Short:   "Unpack zipped RAR sets and rebuild their SFV files",
		GroupID: "archive",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, dir := range args {
				if err := archive.Unpack0day(cmd.Context(), dir, removeDiz); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&removeDiz, "remove-diz", true, "remove .diz files")
	return cmd
}

// NewKEEbookExCmd creates the ke-ebook-ex command.
func NewKEEbookExCmd(opts *RootOpts) *cobra.Command {
	var deletePaths bool
	cmd := &cobra.Command{
		Use:     "ke-ebook-ex <dir...>",
		Short:   "Extract ebooks from RARs within zip files",
		GroupID: "archive",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, dir := range args {
				if err := archive.UnpackEbook(cmd.Context(), dir); err != nil {
					return err
				}
			}
			if deletePaths {
				for _, dir := range args {
					if err := os.RemoveAll(dir); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&deletePaths, "delete-paths", "D", false,
		"delete source directories after extraction")
	return cmd
}

// NewExtractGOGCmd creates the extract-gog command.
func NewExtractGOGCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "extract-gog <installer> <output-dir>",
		Short:   "Split a Linux gog.com installer into its parts",
		GroupID: "archive",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return archive.ExtractGOG(cmd.Context(), args[0], args[1])
		},
	}
}

// NewVerifySFVCmd creates the verify-sfv command.
func NewVerifySFVCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "verify-sfv <sfv-file...>",
		Short:   "Verify files against SFV checksum records",
		GroupID: "archive",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, file := range args {
				if err := archive.VerifySFV(file); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
