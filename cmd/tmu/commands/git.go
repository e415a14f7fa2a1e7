package commands

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/tatsh/tmu/pkg/git"
)

func githubClient(opts *RootOpts, baseURL string) (*github.Client, error) {
	client := github.NewClient(nil)
	if token := opts.Config.GitHubToken; token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, errors.Errorf("setting enterprise URL: %w", err)
		}
	}
	return client, nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return errors.Errorf("opening browser: %w", err)
	}
	return nil
}

// NewGitOpenCmd creates the git-open command.
func NewGitOpenCmd(opts *RootOpts) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:     "git-open [remote]",
		Short:   "Open the repository's web representation based on a remote",
		GroupID: "git",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote := "origin"
			if len(args) == 1 {
				remote = args[0]
			}
			url, err := git.RemoteURL(cmd.Context(), "", remote)
			if err != nil {
				return err
			}
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				url = git.ConvertSSHURLToHTTPS(url)
			}
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}
			return openBrowser(url)
		},
	}
	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "print the URL instead of opening it")
	return cmd
}

// NewGitDefaultBranchCmd creates the git-default-branch command.
func NewGitDefaultBranchCmd(opts *RootOpts) *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:     "git-default-branch [remote]",
		Short:   "Print the default branch of the repository on GitHub",
		GroupID: "git",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote := "origin"
			if len(args) == 1 {
				remote = args[0]
			}
			url, err := git.RemoteURL(cmd.Context(), "", remote)
			if err != nil {
				return err
			}
			client, err := githubClient(opts, baseURL)
			if err != nil {
				return err
			}
			branch, err := git.DefaultBranch(cmd.Context(), client, url)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), branch)
			return nil
		},
	}
	cmd.Flags().StringVarP(&baseURL, "base-url", "b", "", "base URL for GitHub Enterprise")
	return cmd
}

// NewMergeDependabotPRsCmd creates the merge-dependabot-prs command.
func NewMergeDependabotPRsCmd(opts *RootOpts) *cobra.Command {
	var (
		affiliation string
		baseURL     string
		delay       time.Duration
		noRetry     bool
	)
	cmd := &cobra.Command{
		Use:     "merge-dependabot-prs",
		Short:   "Merge pull requests made by Dependabot on GitHub",
		GroupID: "git",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Config.GitHubToken == "" {
				return errors.New("a GitHub token is required, set TMU_GITHUB_TOKEN")
			}
			client, err := githubClient(opts, baseURL)
			if err != nil {
				return err
			}
			for {
				err := git.MergeDependabotPRs(cmd.Context(), client, affiliation)
				if err == nil || noRetry {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Sleeping for %s.\n", delay)
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(delay):
				}
			}
		},
	}
	cmd.Flags().StringVarP(&affiliation, "affiliation", "a", "owner",
		"repository affiliation, see the REST API documentation")
	cmd.Flags().StringVarP(&baseURL, "base-url", "b", "", "base URL for GitHub Enterprise")
	cmd.Flags().DurationVar(&delay, "delay", 2*time.Minute, "delay between attempts")
	cmd.Flags().BoolVar(&noRetry, "no-retry", false, "give up after the first attempt")
	return cmd
}
