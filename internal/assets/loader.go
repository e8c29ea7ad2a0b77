package assets

// Built-in asset names.
const (
	NotebookStyle     = "notebook"
	DataFrameStyle    = "dataframe"
	DataFrameTemplate = "dataframe"
)

// AssetLoader loads CSS styles and HTML templates by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	LoadTemplate(name string) (string, error)
}

// defaultLoader serves the package-level helpers.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded CSS style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an embedded HTML template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}
