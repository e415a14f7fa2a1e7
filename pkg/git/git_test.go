package git

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertSSHURLToHTTPS(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "github",
			in:   "git@github.com:user/repo.git",
			want: "https://github.com/user/repo",
		},
		{
			name: "gitlab_no_suffix",
			in:   "git@gitlab.com:group/project",
			want: "https://gitlab.com/group/project",
		},
		{
			name: "other_user",
			in:   "deploy@example.org:site/code.git",
			want: "https://example.org/site/code",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertSSHURLToHTTPS(tt.in))
		})
	}
}

func TestOwnerRepo(t *testing.T) {
	owner, repo, err := OwnerRepo("git@github.com:tatsh/tmu.git")
	require.NoError(t, err)
	assert.Equal(t, "tatsh", owner)
	assert.Equal(t, "tmu", repo)

	owner, repo, err = OwnerRepo("https://github.com/someone/project")
	require.NoError(t, err)
	assert.Equal(t, "someone", owner)
	assert.Equal(t, "project", repo)

	_, _, err = OwnerRepo("https://github.com/")
	require.Error(t, err)
}

func TestDefaultBranch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/tatsh/tmu", r.URL.Path)
		fmt.Fprint(w, `{"name": "tmu", "default_branch": "master"}`)
	}))
	t.Cleanup(srv.Close)
	client := github.NewClient(srv.Client())
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	branch, err := DefaultBranch(context.Background(), client, "git@github.com:tatsh/tmu.git")
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}
