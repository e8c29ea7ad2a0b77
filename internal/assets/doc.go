// Package assets provides the CSS styles and HTML templates used to render
// notebooks and DataFrame tables.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - custom first, embedded fallback
//
// The built-in assets are:
//
//	styles/notebook.css       # page style for browser-printed PDFs
//	styles/dataframe.css      # table style for DataFrame screenshots
//	templates/dataframe.html  # HTML page wrapping one DataFrame table
//
// A custom asset directory uses the same layout. Overriding a single file is
// enough; anything missing falls back to the embedded copy.
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within its base path.
package assets
