package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tatsh/tmu/pkg/chrome"
	"github.com/tatsh/tmu/pkg/www"
)

// NewCheckBookmarksCmd creates the check-bookmarks command.
func NewCheckBookmarksCmd(opts *RootOpts) *cobra.Command {
	var (
		jsonOutput string
		jobs       int
	)
	cmd := &cobra.Command{
		Use:     "check-bookmarks [file]",
		Short:   "Check for dead links in a Netscape bookmarks HTML file",
		GroupID: "web",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := inputReader(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()
			result, err := www.CheckBookmarks(cmd.Context(), r, &www.CheckBookmarksOptions{
				Concurrency: jobs,
				Progress:    true,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d URLS changed.\n", len(result.Changed))
			fmt.Fprintf(cmd.OutOrStdout(), "%d URLS resulted in 404 response.\n",
				len(result.NotFound))
			if jsonOutput != "" {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(jsonOutput, append(data, '\n'), 0o644); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&jsonOutput, "output-json", "o", "",
		"write checked bookmarks as JSON to this file")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel requests")
	return cmd
}

// NewHTMLDirTreeCmd creates the html-dir-tree command.
func NewHTMLDirTreeCmd(opts *RootOpts) *cobra.Command {
	var (
		depth          int
		followSymlinks bool
		output         string
	)
	cmd := &cobra.Command{
		Use:     "html-dir-tree [path]",
		Short:   "Generate a HTML directory listing",
		GroupID: "web",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			page, err := www.HTMLDirTree(root, depth, followSymlinks)
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, []byte(page), 0o644)
			}
			fmt.Fprint(cmd.OutOrStdout(), page)
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 2, "maximum depth")
	cmd.Flags().BoolVarP(&followSymlinks, "follow-symlinks", "f", false, "follow symlinks")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the page to this file")
	return cmd
}

// NewWhereFromCmd creates the where-from command.
func NewWhereFromCmd(opts *RootOpts) *cobra.Command {
	var webpage bool
	cmd := &cobra.Command{
		Use:     "where-from <file...>",
		Short:   "Display URLs files were downloaded from",
		GroupID: "web",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				origin, err := www.WhereFrom(name, webpage)
				if err != nil {
					return err
				}
				if len(args) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, origin)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), origin)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&webpage, "webpage", "w", false,
		"print the webpage the file was downloaded from instead")
	return cmd
}

// NewImgBBUploadCmd creates the imgbb-upload command.
func NewImgBBUploadCmd(opts *RootOpts) *cobra.Command {
	var apiKey string
	cmd := &cobra.Command{
		Use:     "imgbb-upload <file...>",
		Short:   "Upload images to ImgBB",
		GroupID: "web",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := apiKey
			if key == "" {
				key = opts.Config.ImgBBKey
			}
			client := &www.ImgBB{Key: key}
			for _, name := range args {
				image, err := client.Upload(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), image.URL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "ImgBB API key")
	return cmd
}

// NewChromeUACmd creates the chrome-ua command.
func NewChromeUACmd(opts *RootOpts) *cobra.Command {
	var osPart string
	cmd := &cobra.Command{
		Use:     "chrome-ua",
		Short:   "Print a Chrome user agent string",
		GroupID: "web",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ua, err := chrome.UserAgent(cmd.Context(), nil, osPart)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ua)
			return nil
		},
	}
	cmd.Flags().StringVar(&osPart, "os", chrome.DefaultUserAgentOS,
		"operating system portion of the user agent")
	return cmd
}
