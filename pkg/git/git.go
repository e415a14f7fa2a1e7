// Package git helps with Git remotes and GitHub chores.
package git

import (
	"context"
	"net/url"
	"os/exec"
	"regexp"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	sshUserPattern   = regexp.MustCompile(`^(?:[a-z0-9A-Z]+@)?`)
	sshColonPattern  = regexp.MustCompile(`\.([a-z]+):`)
	gitSuffixPattern = regexp.MustCompile(`\.git$`)
)

// ConvertSSHURLToHTTPS converts a Git SSH URI such as
// git@github.com:user/repo.git to its HTTPS form.
func ConvertSSHURLToHTTPS(uri string) string {
	out := sshUserPattern.ReplaceAllString(uri, "https://")
	out = replaceFirst(sshColonPattern, out, ".$1/")
	return gitSuffixPattern.ReplaceAllString(out, "")
}

// replaceFirst substitutes only the first match of re in s.
func replaceFirst(re *regexp.Regexp, s, replacement string) string {
	done := false
	return re.ReplaceAllStringFunc(s, func(m string) string {
		if done {
			return m
		}
		done = true
		return re.ReplaceAllString(m, replacement)
	})
}

// RemoteURL returns the URL of a remote in the repository at dir.
func RemoteURL(ctx context.Context, dir, remote string) (string, error) {
	if remote == "" {
		remote = "origin"
	}
	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", remote)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Errorf("getting URL of remote %s: %w", remote, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// OwnerRepo extracts the owner and repository name from a Git remote URL,
// SSH or HTTPS.
func OwnerRepo(remoteURL string) (string, string, error) {
	parsed, err := url.Parse(ConvertSSHURLToHTTPS(remoteURL))
	if err != nil {
		return "", "", errors.Errorf("parsing %s: %w", remoteURL, err)
	}
	owner, repo, found := strings.Cut(strings.TrimPrefix(parsed.Path, "/"), "/")
	if !found || owner == "" || repo == "" {
		return "", "", errors.Errorf("no owner/repo in %s", remoteURL)
	}
	return owner, repo, nil
}

// DefaultBranch looks up the default branch of the GitHub repository the
// remote URL points at.
func DefaultBranch(ctx context.Context, client *github.Client, remoteURL string) (string, error) {
	owner, repo, err := OwnerRepo(remoteURL)
	if err != nil {
		return "", err
	}
	repository, _, err := client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", errors.Errorf("getting repository %s/%s: %w", owner, repo, err)
	}
	return repository.GetDefaultBranch(), nil
}

func usesDependabot(ctx context.Context, client *github.Client, repo *github.Repository) bool {
	if updates := repo.GetSecurityAndAnalysis().GetDependabotSecurityUpdates(); updates != nil &&
		updates.GetStatus() == "enabled" {
		return true
	}
	_, _, _, err := client.Repositories.GetContents(ctx, repo.GetOwner().GetLogin(),
		repo.GetName(), ".github/workflows/dependabot.yml", nil)
	return err == nil
}

// MergeDependabotPRs merges every open pull request made by Dependabot
// across the authenticated user's repositories. Pull requests that cannot be
// merged get a "@dependabot rebase" comment instead. A non-nil error is
// returned if any merge attempt failed.
func MergeDependabotPRs(ctx context.Context, client *github.Client, affiliation string) error {
	if affiliation == "" {
		affiliation = "owner"
	}
	logger := zerolog.Ctx(ctx)
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Affiliation: affiliation,
		Sort:        "full_name",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var failed bool
	for {
		repos, resp, err := client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return errors.Errorf("listing repositories: %w", err)
		}
		for _, repo := range repos {
			if repo.GetArchived() || !usesDependabot(ctx, client, repo) {
				continue
			}
			logger.Info().Str("repository", repo.GetName()).Msg("checking")
			owner := repo.GetOwner().GetLogin()
			pulls, _, err := client.PullRequests.List(ctx, owner, repo.GetName(), nil)
			if err != nil {
				return errors.Errorf("listing pull requests in %s: %w", repo.GetName(), err)
			}
			for _, pull := range pulls {
				if pull.GetUser().GetLogin() != "dependabot[bot]" {
					continue
				}
				result, _, err := client.PullRequests.Merge(ctx, owner, repo.GetName(),
					pull.GetNumber(), "", &github.PullRequestOptions{MergeMethod: "rebase"})
				if err != nil {
					logger.Warn().Err(err).Int("number", pull.GetNumber()).
						Str("repository", repo.GetName()).Msg("merge failed")
					failed = true
					continue
				}
				if !result.GetMerged() {
					if _, _, err := client.Issues.CreateComment(ctx, owner, repo.GetName(),
						pull.GetNumber(), &github.IssueComment{
							Body: github.String("@dependabot rebase"),
						}); err != nil {
						failed = true
					}
				}
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	if failed {
		return errors.New("one or more pull requests could not be merged")
	}
	return nil
}
