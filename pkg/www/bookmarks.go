// Package www covers web utilities: bookmarks checking, HTML directory
// listings, download origin lookup and image hosting.
package www

import (
	"io"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
)

// Bookmark is a node of a parsed Netscape bookmarks file. Folders carry Name
// and Children, links carry Title. Attrs holds the source element's
// attributes such as href, add_date and icon.
type Bookmark struct {
	Type     string            `json:"type"`
	Name     string            `json:"name,omitempty"`
	Title    string            `json:"title,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Bookmark       `json:"children,omitempty"`
}

const (
	// BookmarkFolder is the Type of folder nodes.
	BookmarkFolder = "folder"
	// BookmarkLink is the Type of link nodes.
	BookmarkLink = "link"
)

var spaceRunPattern = regexp.MustCompile(`\s+`)

func collapsedText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			visit(c.FirstChild)
		}
	}
	visit(n.FirstChild)
	return strings.TrimSpace(spaceRunPattern.ReplaceAllString(b.String(), " "))
}

func attrMap(n *html.Node) map[string]string {
	if len(n.Attr) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}

// parseContainer consumes the children of a definition list. An h3 opens a
// folder which adopts the next dl at the same level; dt, dd and p wrappers
// are transparent.
func parseContainer(n *html.Node, parent *Bookmark) {
	var pending *Bookmark
	var visit func(*html.Node)
	visit = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "h3":
				pending = &Bookmark{
					Type:  BookmarkFolder,
					Name:  collapsedText(c),
					Attrs: attrMap(c),
				}
				parent.Children = append(parent.Children, pending)
			case "dl":
				target := parent
				if pending != nil {
					target = pending
					pending = nil
				}
				parseContainer(c.FirstChild, target)
			case "a":
				parent.Children = append(parent.Children, &Bookmark{
					Type:  BookmarkLink,
					Title: collapsedText(c),
					Attrs: attrMap(c),
				})
			case "html", "body", "dt", "dd", "p":
				visit(c.FirstChild)
			}
		}
	}
	visit(n)
}

// ParseBookmarks parses an exported bookmarks.html into a folder and link
// tree.
func ParseBookmarks(r io.Reader) ([]*Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Errorf("parsing bookmarks HTML: %w", err)
	}
	root := &Bookmark{Type: BookmarkFolder}
	parseContainer(doc, root)
	return root.Children, nil
}
