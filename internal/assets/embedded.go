package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css templates/*.html
var embedded embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads styles/{name}.css.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.read("styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate loads templates/{name}.html.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.read("templates", name, ".html", ErrTemplateNotFound)
}

func (e *EmbeddedLoader) read(dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := embedded.ReadFile(dir + "/" + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

// StyleNames lists the embedded style names, sorted.
func StyleNames() []string {
	entries, err := fs.ReadDir(embedded, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
