package commands

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/tatsh/tmu/pkg/naming"
	"github.com/tatsh/tmu/pkg/stringutil"
)

// NewSanitizeCmd creates the sanitize command.
func NewSanitizeCmd(opts *RootOpts) *cobra.Command {
	var noRestricted bool
	cmd := &cobra.Command{
		Use:     "sanitize [file]",
		Short:   "Transform a string to a sanitised form",
		GroupID: "strings",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := inputString(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stringutil.Sanitize(s, !noRestricted))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&noRestricted, "no-restricted", "R", false,
		"do not use the restricted character set")
	return cmd
}

// NewSlugifyCmd creates the slugify command.
func NewSlugifyCmd(opts *RootOpts) *cobra.Command {
	var noLower bool
	cmd := &cobra.Command{
		Use:     "slugify [file]",
		Short:   "Transform a string into a slug",
		GroupID: "strings",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := inputString(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stringutil.Slugify(s, noLower))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noLower, "no-lower", false, "disable lowercasing")
	return cmd
}

// NewUnderscorizeCmd creates the underscorize command.
func NewUnderscorizeCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "underscorize [file]",
		Short:   "Replace space runs with underscores",
		GroupID: "strings",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := inputString(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stringutil.Underscorize(s))
			return nil
		},
	}
}

// NewTrimCmd creates the trim command.
func NewTrimCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "trim [file]",
		Short:   "Trim whitespace from every line",
		GroupID: "strings",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := inputReader(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()
			scanner := bufio.NewScanner(r)
			for scanner.Scan() {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(scanner.Text()))
			}
			if err := scanner.Err(); err != nil {
				return errors.Errorf("reading input: %w", err)
			}
			return nil
		},
	}
}

func titleCase(s string) string {
	prev := ' '
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			r = unicode.ToLower(r)
		} else {
			r = unicode.ToTitle(r)
		}
		prev = r
		return r
	}, s)
}

// NewUcwordsCmd creates the ucwords command, named after PHP's function.
func NewUcwordsCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "ucwords [file]",
		Short:   "Capitalise every word",
		GroupID: "strings",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := inputReader(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()
			scanner := bufio.NewScanner(r)
			for scanner.Scan() {
				fmt.Fprintln(cmd.OutOrStdout(), titleCase(scanner.Text()))
			}
			if err := scanner.Err(); err != nil {
				return errors.Errorf("reading input: %w", err)
			}
			return nil
		},
	}
}

// NewTitleCmd creates the title command.
func NewTitleCmd(opts *RootOpts) *cobra.Command {
	var (
		ampersands   bool
		disableNames bool
		modeNames    []string
	)
	cmd := &cobra.Command{
		Use:     "title [words...]",
		Short:   "Adjust a title to correct casing",
		GroupID: "strings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var modes naming.Mode
			for _, name := range modeNames {
				switch strings.ToLower(name) {
				case "english":
					modes |= naming.ModeEnglish
				case "japanese":
					modes |= naming.ModeJapanese
				case "chinese":
					modes |= naming.ModeChinese
				case "arabic":
					modes |= naming.ModeArabic
				default:
					return errors.Errorf("unknown mode %q", name)
				}
			}
			words := strings.Join(args, " ")
			if words == "" {
				var err error
				words, err = inputString(cmd, nil)
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), naming.AdjustTitle(words, &naming.Options{
				Modes:        modes,
				DisableNames: disableNames,
				Ampersands:   ampersands,
			}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&ampersands, "ampersands", false, `replace " and " with " & "`)
	cmd.Flags().BoolVar(&disableNames, "no-names", false, "disable known name fixups")
	cmd.Flags().StringSliceVarP(&modeNames, "mode", "m", nil,
		"language modes (english, japanese, chinese, arabic)")
	return cmd
}

// NewFullwidthToASCIICmd creates the fullwidth2ascii command.
func NewFullwidthToASCIICmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "fullwidth2ascii [file]",
		Short:   "Convert fullwidth characters to their narrow forms",
		GroupID: "strings",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := inputString(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), stringutil.FullwidthToNarrow(s))
			return nil
		},
	}
}

// NewURLDecodeCmd creates the urldecode command.
func NewURLDecodeCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "urldecode [file]",
		Short:   "Decode percent-encoded text",
		GroupID: "strings",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := inputString(cmd, args)
			if err != nil {
				return err
			}
			decoded, err := url.QueryUnescape(s)
			if err != nil {
				return errors.Errorf("decoding input: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), decoded)
			return nil
		},
	}
}

// NewNetlocCmd creates the netloc command.
func NewNetlocCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "netloc [file]",
		Short:   "Print the network location of a URL",
		GroupID: "strings",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := inputString(cmd, args)
			if err != nil {
				return err
			}
			parsed, err := url.Parse(strings.TrimSpace(s))
			if err != nil {
				return errors.Errorf("parsing URL: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), parsed.Host)
			return nil
		},
	}
}

// NewIsASCIICmd creates the is-ascii command. The exit code is the answer.
func NewIsASCIICmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:           "is-ascii [file]",
		Short:         "Check if input contains only ASCII",
		GroupID:       "strings",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := inputString(cmd, args)
			if err != nil {
				return err
			}
			if !stringutil.IsASCII(s) {
				return errors.New("input contains non-ASCII characters")
			}
			return nil
		},
	}
}

// isBinaryString mirrors Perl's -B heuristic on a sample of the input.
func isBinaryString(sample []byte) bool {
	for _, b := range sample {
		if b == 0 {
			return true
		}
	}
	if len(sample) == 0 {
		return false
	}
	printable := 0
	for _, b := range sample {
		if b == '\n' || b == '\r' || b == '\t' || b == '\b' || (b >= 32 && b < 127) {
			printable++
		}
	}
	return float64(len(sample)-printable)/float64(len(sample)) > 0.3
}

// NewIsBinCmd creates the is-bin command. Exit code 0 means the input is
// probably binary. Empty files do not count as binary.
func NewIsBinCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:           "is-bin [file]",
		Short:         "Check if a file has binary contents",
		GroupID:       "strings",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := inputReader(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()
			sample := make([]byte, 1024)
			n, _ := r.Read(sample)
			if n == 0 || !isBinaryString(sample[:n]) {
				return errors.New("input does not look binary")
			}
			return nil
		},
	}
}

// NewUnix2WineCmd creates the unix2wine command.
func NewUnix2WineCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "unix2wine <path>",
		Short:   "Convert a UNIX path to an absolute Wine path",
		GroupID: "strings",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), stringutil.UnixPathToWine(args[0]))
			return nil
		},
	}
}
