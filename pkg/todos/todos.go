// Package todos scans source trees for open task markers.
package todos

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// markerPattern matches a task marker at the start of a comment or word
// boundary.
var markerPattern = regexp.MustCompile(`\b(TODO|FIXME|XXX|HACK)\b[:\s]?\s*(.*)`)

// DefaultIgnores skips directories that never hold project sources.
var DefaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/.venv/**",
	"**/__pycache__/**",
}

// Item is one marker occurrence.
type Item struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Marker string `json:"marker"`
	Text   string `json:"text"`
}

// Options controls Scan.
type Options struct {
	// Ignores are doublestar patterns matched against the path relative to
	// the scan root. DefaultIgnores are always applied.
	Ignores []string
	// Concurrency bounds parallel file scanning. Defaults to 8.
	Concurrency int
}

func ignored(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range append(append([]string{}, DefaultIgnores...), patterns...) {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func looksBinary(sample []byte) bool {
	for _, b := range sample {
		if b == 0 {
			return true
		}
	}
	return false
}

func scanFile(path, rel string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var items []Item
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if lineNo == 1 && looksBinary(line) {
			return nil, nil
		}
		m := markerPattern.FindSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, Item{
			Path:   rel,
			Line:   lineNo,
			Marker: string(m[1]),
			Text:   strings.TrimSpace(string(m[2])),
		})
	}
	if err := scanner.Err(); err != nil {
		// Long or binary lines are not worth failing the scan over.
		return items, nil
	}
	return items, nil
}

// Scan walks root and collects marker lines from every regular file,
// ordered by path then line.
func Scan(ctx context.Context, root string, opts *Options) ([]Item, error) {
	if opts == nil {
		opts = &Options{}
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	logger := zerolog.Ctx(ctx)
	var mu sync.Mutex
	var all []Item
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if ignored(rel, opts.Ignores) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		select {
		case <-gctx.Done():
			return gctx.Err()
		default:
		}
		g.Go(func() error {
			items, err := scanFile(path, rel)
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
				return nil
			}
			if len(items) > 0 {
				mu.Lock()
				all = append(all, items...)
				mu.Unlock()
			}
			return nil
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Path != all[j].Path {
			return all[i].Path < all[j].Path
		}
		return all[i].Line < all[j].Line
	})
	return all, nil
}
