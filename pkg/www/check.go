package www

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tatsh/tmu/pkg/chrome"
)

// CheckBookmarksOptions controls CheckBookmarks.
type CheckBookmarksOptions struct {
	// HTTPClient must not follow redirects. When nil a suitable client is
	// built.
	HTTPClient *http.Client
	// UserAgent defaults to a Chrome user agent.
	UserAgent string
	// Concurrency bounds parallel HEAD requests. Defaults to 8.
	Concurrency int
	// Progress shows a progress bar on the terminal.
	Progress bool
}

// CheckBookmarksResult is the parsed tree plus the links whose URLs moved
// permanently or were not found. Moved links have their href updated in
// place in both Data and Changed.
type CheckBookmarksResult struct {
	Data     []*Bookmark `json:"data"`
	Changed  []*Bookmark `json:"changed"`
	NotFound []*Bookmark `json:"not_found"`
}

type checkItem struct {
	link *Bookmark
	path []string
}

func collectLinks(nodes []*Bookmark, path []string, out *[]checkItem) {
	for _, node := range nodes {
		switch node.Type {
		case BookmarkLink:
			href := node.Attrs["href"]
			if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
				*out = append(*out, checkItem{node, path})
			}
		case BookmarkFolder:
			collectLinks(node.Children, append(path[:len(path):len(path)], node.Name), out)
		}
	}
}

func resolveLocation(original, location string) string {
	base, err := url.Parse(original)
	if err != nil {
		return location
	}
	ref, err := url.Parse(location)
	if err != nil {
		return location
	}
	return base.ResolveReference(ref).String()
}

// CheckBookmarks parses an exported bookmarks.html and sends a HEAD request
// to every http(s) link, collecting links that moved (301 and 302, with the
// Location resolved against the original URL) and links that no longer
// exist (404).
func CheckBookmarks(ctx context.Context, r io.Reader,
	opts *CheckBookmarksOptions) (*CheckBookmarksResult, error) {
	if opts == nil {
		opts = &CheckBookmarksOptions{}
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		var err error
		userAgent, err = chrome.UserAgent(ctx, nil, "")
		if err != nil {
			return nil, err
		}
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	data, err := ParseBookmarks(r)
	if err != nil {
		return nil, err
	}
	var items []checkItem
	collectLinks(data, nil, &items)
	var progress *pterm.ProgressbarPrinter
	if opts.Progress && len(items) > 0 {
		progress, _ = pterm.DefaultProgressbar.WithTotal(len(items)).
			WithTitle("Checking bookmarks").Start()
	}
	logger := zerolog.Ctx(ctx)
	result := &CheckBookmarksResult{Data: data}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, item := range items {
		item := item
		g.Go(func() error {
			defer func() {
				if progress != nil {
					mu.Lock()
					progress.Increment()
					mu.Unlock()
				}
			}()
			href := item.link.Attrs["href"]
			req, err := http.NewRequestWithContext(gctx, http.MethodHead, href, nil)
			if err != nil {
				logger.Warn().Err(err).Str("url", href).Msg("skipping invalid URL")
				return nil
			}
			req.Header.Set("Cache-Control", "no-cache")
			req.Header.Set("DNT", "1")
			req.Header.Set("Pragma", "no-cache")
			req.Header.Set("Referer", "https://www.google.com/")
			req.Header.Set("Upgrade-Insecure-Requests", "1")
			req.Header.Set("User-Agent", userAgent)
			logger.Debug().Str("url", href).Msg("HEAD")
			resp, err := client.Do(req)
			if err != nil {
				logger.Warn().Err(err).Str("url", href).Msg("request failed")
				return nil
			}
			defer resp.Body.Close()
			name := strings.Join(append(item.path[:len(item.path):len(item.path)],
				item.link.Title), " / ")
			switch resp.StatusCode {
			case http.StatusMovedPermanently, http.StatusFound:
				newLocation := resolveLocation(href, resp.Header.Get("Location"))
				logger.Info().Int("status", resp.StatusCode).Str("name", name).
					Str("from", href).Str("to", newLocation).Msg("moved")
				mu.Lock()
				item.link.Attrs["href"] = newLocation
				result.Changed = append(result.Changed, item.link)
				mu.Unlock()
			case http.StatusNotFound:
				logger.Error().Int("status", resp.StatusCode).Str("name", name).
					Str("url", href).Msg("not found")
				mu.Lock()
				result.NotFound = append(result.NotFound, item.link)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("checking bookmarks: %w", err)
	}
	if progress != nil {
		_, _ = progress.Stop()
	}
	return result, nil
}
