package cdda

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/user"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultCDDBHost is the public gnudb mirror of the freedb database.
const DefaultCDDBHost = "gnudb.gnudb.org"

// CDDBResult holds the metadata for a single disc.
type CDDBResult struct {
	Artist string   `json:"artist"`
	Album  string   `json:"album"`
	Year   int      `json:"year"`
	Genre  string   `json:"genre"`
	Tracks []string `json:"tracks"`
}

// CDDBClient queries a CDDBP-over-HTTP server (cddb.cgi, protocol level 6).
type CDDBClient struct {
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Host is the server hostname. Defaults to DefaultCDDBHost.
	Host string
	// App identifies this client in the hello parameter.
	App string
	// Username defaults to the current user.
	Username string
	// Version of the client, also sent in hello.
	Version string
	// AcceptFirstMatch picks the first disc when the server returns several
	// exact matches. When false multiple matches are an error.
	AcceptFirstMatch bool
}

func (c *CDDBClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *CDDBClient) hello() string {
	username := c.Username
	if username == "" {
		if u, err := user.Current(); err == nil {
			username = u.Username
		} else {
			username = "unknown"
		}
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	app := c.App
	if app == "" {
		app = "tmu"
	}
	version := c.Version
	if version == "" {
		version = "0.0.1"
	}
	return strings.Join([]string{username, hostname, app, version}, " ")
}

func (c *CDDBClient) get(ctx context.Context, cmd string) (string, error) {
	host := c.Host
	if host == "" {
		host = DefaultCDDBHost
	}
	hello := c.hello()
	query := url.Values{
		"cmd":   {cmd},
		"hello": {hello},
		"proto": {"6"},
	}
	server := "http://" + host + "/~cddb/cddb.cgi?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server, nil)
	if err != nil {
		return "", errors.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", hello)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", errors.Errorf("querying %s: %w", host, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("server returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Errorf("reading response: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("cmd", cmd).Msg(strings.TrimSpace(string(body)))
	return string(body), nil
}

// Query looks up discID, as produced by DiscID or FormatDiscID, and returns
// the disc metadata. The server's CDDB response codes 200 (exact match) and
// 210 (multiple exact matches) are accepted.
func (c *CDDBClient) Query(ctx context.Context, discID string) (*CDDBResult, error) {
	body, err := c.get(ctx, "cddb query "+discID)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(body, "\r\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	firstLine := strings.SplitN(lines[0], " ", 4)
	var category, matchedID, artistTitle string
	switch {
	case len(lines) == 1 && firstLine[0] == "200":
		if len(firstLine) < 4 {
			return nil, errors.Errorf("malformed match line %q", lines[0])
		}
		category, matchedID, artistTitle = firstLine[1], firstLine[2], firstLine[3]
	case firstLine[0] == "210":
		if !c.AcceptFirstMatch {
			return nil, errors.Errorf("%d matches found", len(lines)-2)
		}
		parts := strings.SplitN(lines[1], " ", 3)
		if len(parts) < 3 {
			return nil, errors.Errorf("malformed match line %q", lines[1])
		}
		category, matchedID, artistTitle = parts[0], parts[1], parts[2]
	default:
		return nil, errors.Errorf("unexpected CDDB code %s", firstLine[0])
	}
	artist, album, found := strings.Cut(artistTitle, " / ")
	if !found {
		album = artist
	}
	result := &CDDBResult{Artist: artist, Album: album}
	body, err = c.get(ctx, "cddb read "+category+" "+matchedID)
	if err != nil {
		return nil, err
	}
	type numberedTrack struct {
		index int
		title string
	}
	var tracks []numberedTrack
	readLines := strings.Split(body, "\n")
	for _, line := range readLines[1:] {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '.' || line[0] == '#' {
			continue
		}
		field, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch {
		case field == "DTITLE":
			if a, t, ok := strings.Cut(value, " / "); ok {
				result.Artist, result.Album = a, t
			}
		case field == "DYEAR":
			if year, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				result.Year = year
			}
		case field == "DGENRE":
			result.Genre = value
		case strings.HasPrefix(field, "TTITLE"):
			index, err := strconv.Atoi(field[len("TTITLE"):])
			if err != nil {
				continue
			}
			tracks = append(tracks, numberedTrack{index, value})
		}
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].index < tracks[j].index })
	result.Tracks = make([]string, 0, len(tracks))
	for _, t := range tracks {
		result.Tracks = append(result.Tracks, t.title)
	}
	return result, nil
}
