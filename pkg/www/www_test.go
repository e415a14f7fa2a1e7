package www

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookmarksFixture = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1690000000" LAST_MODIFIED="1690000001" PERSONAL_TOOLBAR_FOLDER="true">Bar</H3>
    <DL><p>
        <DT><A HREF="https://example.com/" ADD_DATE="1690000002">Example
            Site</A>
        <DT><H3 ADD_DATE="1690000003">Nested</H3>
        <DL><p>
            <DT><A HREF="https://sr.ht/" ADD_DATE="1690000004">Sourcehut</A>
        </DL><p>
    </DL><p>
    <DT><A HREF="http://top.example.org/" ADD_DATE="1690000005">Top level</A>
</DL>
`

func TestParseBookmarks(t *testing.T) {
	data, err := ParseBookmarks(strings.NewReader(bookmarksFixture))
	require.NoError(t, err)
	require.Len(t, data, 2)

	folder := data[0]
	assert.Equal(t, BookmarkFolder, folder.Type)
	assert.Equal(t, "Bar", folder.Name)
	assert.Equal(t, "true", folder.Attrs["personal_toolbar_folder"])
	require.Len(t, folder.Children, 2)

	link := folder.Children[0]
	assert.Equal(t, BookmarkLink, link.Type)
	assert.Equal(t, "Example Site", link.Title)
	assert.Equal(t, "https://example.com/", link.Attrs["href"])

	nested := folder.Children[1]
	assert.Equal(t, "Nested", nested.Name)
	require.Len(t, nested.Children, 1)
	assert.Equal(t, "Sourcehut", nested.Children[0].Title)

	assert.Equal(t, BookmarkLink, data[1].Type)
	assert.Equal(t, "Top level", data[1].Title)
}

func TestCheckBookmarks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/moved":
			w.Header().Set("Location", "/new-home")
			w.WriteHeader(http.StatusMovedPermanently)
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	content := `<DL><p>
	<DT><A HREF="` + srv.URL + `/moved">Moved</A>
	<DT><A HREF="` + srv.URL + `/gone">Gone</A>
	<DT><A HREF="` + srv.URL + `/fine">Fine</A>
	<DT><A HREF="ftp://ignored.example.com/">Ignored</A>
</DL>`
	result, err := CheckBookmarks(context.Background(), strings.NewReader(content),
		&CheckBookmarksOptions{
			HTTPClient: &http.Client{
				CheckRedirect: func(*http.Request, []*http.Request) error {
					return http.ErrUseLastResponse
				},
			},
			UserAgent: "test-agent",
		})
	require.NoError(t, err)
	require.Len(t, result.Changed, 1)
	assert.Equal(t, "Moved", result.Changed[0].Title)
	assert.Equal(t, srv.URL+"/new-home", result.Changed[0].Attrs["href"])
	require.Len(t, result.NotFound, 1)
	assert.Equal(t, "Gone", result.NotFound[0].Title)
	assert.Len(t, result.Data, 4)
}

func TestResolveLocation(t *testing.T) {
	assert.Equal(t, "https://example.com/new",
		resolveLocation("https://example.com/old", "/new"))
	assert.Equal(t, "https://other.example.org/x",
		resolveLocation("https://example.com/old", "https://other.example.org/x"))
	assert.Equal(t, "http://example.com:8080/new",
		resolveLocation("http://example.com:8080/old", "/new"))
}

func TestHTMLDirTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "inner.txt"), nil, 0o644))

	out, err := HTMLDirTree(root, 2, false)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Contents of "+filepath.Base(root)+"/</title>")
	assert.Contains(t, out, "<summary><code>sub/</code></summary>")
	assert.Contains(t, out, `href="./sub/inner.txt"`)
	assert.Contains(t, out, `href="./a.txt"`)
	// Directories come before files.
	assert.Less(t, strings.Index(out, "sub/"), strings.Index(out, "a.txt"))
}

func TestHTMLDirTreeDepthLimit(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "one", "two"), 0o755))

	out, err := HTMLDirTree(root, 1, false)
	require.NoError(t, err)
	assert.Contains(t, out, "<summary><code>one/</code></summary>")
	// Depth limit reached so the inner directory renders as a plain entry.
	assert.Contains(t, out, `href="./one/two"><code>two/</code>`)
}

func TestHTMLDirTreeMissing(t *testing.T) {
	_, err := HTMLDirTree(filepath.Join(t.TempDir(), "nope"), 2, false)
	assert.Error(t, err)
}

func TestImgBBUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "pic.png", header.Filename)
		_, _ = w.Write([]byte(`{"data":{"url":"https://i.ibb.co/abc/pic.png",` +
			`"delete_url":"https://ibb.co/abc/del"},"success":true,"status":200}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0o644))

	client := &ImgBB{BaseURL: srv.URL, Key: "secret"}
	image, err := client.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/abc/pic.png", image.URL)
	assert.Equal(t, "https://ibb.co/abc/del", image.DeleteURL)
}

func TestImgBBUploadNoKey(t *testing.T) {
	client := &ImgBB{}
	_, err := client.Upload(context.Background(), "whatever.png")
	assert.ErrorContains(t, err, "API key")
}
