package chrome

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastMajorVersion(t *testing.T) {
	home := t.TempDir()
	assert.Empty(t, lastMajorVersion(home))

	profile := filepath.Join(home, ".config", "google-chrome")
	require.NoError(t, os.MkdirAll(profile, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(profile, "Last Version"),
		[]byte("124.0.6367.91\n"), 0o644))
	assert.Equal(t, "124", lastMajorVersion(home))

	// Beta wins over stable.
	beta := filepath.Join(home, ".config", "google-chrome-beta")
	require.NoError(t, os.MkdirAll(beta, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(beta, "Last Version"),
		[]byte("125.0.6400.0"), 0o644))
	assert.Equal(t, "125", lastMajorVersion(home))
}

func TestLatestMajorVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"versions":[{"version":"126.0.6478.55"},{"version":"126.0.6478.54"}]}`))
	}))
	defer srv.Close()
	client := srv.Client()
	client.Transport = rewriteTransport{srv.URL, client.Transport}

	version, err := LatestMajorVersion(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "126", version)
}

func TestLatestMajorVersionEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"versions":[]}`))
	}))
	defer srv.Close()
	client := srv.Client()
	client.Transport = rewriteTransport{srv.URL, client.Transport}

	_, err := LatestMajorVersion(context.Background(), client)
	assert.Error(t, err)
}

// rewriteTransport redirects every request to the test server.
type rewriteTransport struct {
	target string
	base   http.RoundTripper
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redirected, err := http.NewRequestWithContext(req.Context(), req.Method,
		t.target+req.URL.Path, req.Body)
	if err != nil {
		return nil, err
	}
	redirected.Header = req.Header
	return t.base.RoundTrip(redirected)
}
