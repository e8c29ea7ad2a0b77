package export

import (
	"cmp"
	"net/url"
	"slices"
	"strings"
)

// RewriteAssetPaths points every reference to one of names at imageDir. All
// names are replaced in a single pass, longest first, so a name that is a
// prefix of another cannot clobber it. Directory and file names are URL
// escaped so Markdown renderers resolve names with spaces.
func RewriteAssetPaths(body []byte, names []string, imageDir string) []byte {
	if len(names) == 0 {
		return body
	}
	sorted := slices.Clone(names)
	slices.SortFunc(sorted, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), strings.Compare(a, b))
	})

	prefix := url.PathEscape(imageDir) + "/"
	pairs := make([]string, 0, 2*len(sorted))
	for _, name := range sorted {
		pairs = append(pairs, name, prefix+url.PathEscape(name))
	}
	return []byte(strings.NewReplacer(pairs...).Replace(string(body)))
}
