package assets

import "errors"

// AssetResolver tries a custom loader first and falls back to the embedded
// assets when the custom directory does not provide the asset.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom path
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath means
// embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads a CSS style, custom first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) {
		return l.LoadStyle(name)
	})
}

// LoadTemplate loads an HTML template, custom first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) {
		return l.LoadTemplate(name)
	})
}

// HasCustomLoader reports whether a custom asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

func (r *AssetResolver) loadWithFallback(load func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return load(r.embedded)
	}
	content, err := load(r.custom)
	if err == nil {
		return content, nil
	}
	// Validation and I/O errors are not masked by the fallback.
	if !isNotFoundError(err) {
		return "", err
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

var _ AssetLoader = (*AssetResolver)(nil)
