package www

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const dirTreeTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="X-UA-Compatible" content="IE=edge">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Contents of %s/</title>
<link rel="stylesheet" href="https://cdn.muicss.com/mui-0.10.3/css/mui.min.css"
crossorigin="anonymous">
<style>
ul {
    list-style: none;
    padding-inline-start: 1em;
}
.dir {
    cursor: pointer;
}
.mui-appbar {
    margin-bottom: 2em;
}
</style>
</head>
<body>
<header class="mui-appbar mui--z1">
<div class="mui-container-fluid">
<h1 class="mui--text-title">Contents of %s</h1>
</div>
</header>
<div class="mui-container-fluid">
<ul>%s</ul>
</div>
</body>
</html>`

func isDirEntry(root, rel string, entry os.DirEntry, followSymlinks bool) bool {
	if entry.IsDir() {
		return true
	}
	if !followSymlinks || entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, rel, entry.Name()))
	return err == nil && info.IsDir()
}

// HTMLDirTree builds a static HTML listing of a directory. Directories sort
// before files and are expandable up to depth levels deep.
func HTMLDirTree(root string, depth int, followSymlinks bool) (string, error) {
	resolved, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", root, err)
	}
	if _, err := os.Stat(resolved); err != nil {
		return "", errors.Errorf("inspecting %s: %w", root, err)
	}
	var b strings.Builder
	var recurse func(rel string, curDepth int) error
	recurse = func(rel string, curDepth int) error {
		entries, err := os.ReadDir(filepath.Join(resolved, rel))
		if err != nil {
			return errors.Errorf("listing %s: %w", filepath.Join(resolved, rel), err)
		}
		// ReadDir sorts by name; keep that within each partition.
		sort.SliceStable(entries, func(i, j int) bool {
			return isDirEntry(resolved, rel, entries[i], followSymlinks) &&
				!isDirEntry(resolved, rel, entries[j], followSymlinks)
		})
		for _, entry := range entries {
			isDir := isDirEntry(resolved, rel, entry, followSymlinks)
			entryRel := filepath.ToSlash(filepath.Join(rel, entry.Name()))
			if isDir && curDepth < depth {
				fmt.Fprintf(&b, `<li class="dir mui--text-dark mui--text-body2"><details>`+
					`<summary><code>%s/</code></summary><ul>`, html.EscapeString(entry.Name()))
				if err := recurse(entryRel, curDepth+1); err != nil {
					return err
				}
				b.WriteString("</ul></details></li>")
			} else {
				class, slash := "file", ""
				if isDir {
					class, slash = "dir", "/"
				}
				fmt.Fprintf(&b, `<li class="%s mui--text-dark mui--text-body1">`+
					`<a class="mui--text-dark" href="./%s"><code>%s%s</code></a></li>`,
					class, entryRel, html.EscapeString(entry.Name()), slash)
			}
		}
		return nil
	}
	if err := recurse("", 0); err != nil {
		return "", err
	}
	title := filepath.Base(resolved)
	return fmt.Sprintf(dirTreeTemplate, title, title, b.String()), nil
}
