package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/alnah/go-dfimage/internal/fileutil"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteRelativePaths converts relative img[src] and a[href] references to
// absolute file:// URLs so the browser can load them from a file:// page
// written elsewhere.
//
// Each reference is resolved against dirs in order and the first directory
// holding the file wins. A reference found nowhere resolves against the
// first directory. References escaping their directory are left as is.
// Without dirs the HTML is returned unchanged.
func RewriteRelativePaths(htmlContent string, dirs ...string) (string, error) {
	if len(dirs) == 0 {
		return htmlContent, nil
	}

	absDirs := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d == "" {
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			return "", err
		}
		absDirs = append(absDirs, abs)
	}
	if len(absDirs) == 0 {
		return htmlContent, nil
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}
	rewriteNode(doc, absDirs)
	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string. Fragments render their
// children only, without an <html><body> wrapper.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, dirs []string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", dirs)
		case atom.A:
			rewriteAttr(n, "href", dirs)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, dirs)
	}
}

func rewriteAttr(n *html.Node, attrName string, dirs []string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !fileutil.IsLocalRelative(attr.Val) {
			continue
		}
		if abs, ok := resolve(attr.Val, dirs); ok {
			n.Attr[i].Val = pathToFileURL(abs)
		}
	}
}

// resolve finds ref under dirs. Markdown references are URL escaped, so the
// unescaped form is tried.
func resolve(ref string, dirs []string) (string, bool) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if p, err := url.PathUnescape(ref); err == nil {
		ref = p
	}

	fallback := ""
	for _, dir := range dirs {
		abs := filepath.Join(dir, filepath.FromSlash(ref))
		if !isPathUnderDir(abs, dir) {
			continue
		}
		if fileutil.FileExists(abs) {
			return abs, true
		}
		if fallback == "" {
			fallback = abs
		}
	}
	return fallback, fallback != ""
}

// isPathUnderDir checks if absPath is under dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
