package preprocess

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-dfimage/internal/fileutil"
	"github.com/alnah/go-dfimage/internal/notebook"
	"go.uber.org/zap"
)

// imageRefPattern matches ![alt](ref) and ![alt](ref "title"). Group 2 is the
// reference, optionally wrapped in angle brackets.
var imageRefPattern = regexp.MustCompile(`!\[([^\]]*)\]\(\s*(<[^>]+>|[^)\s]+)(\s+"[^"]*")?\s*\)`)

const attachmentScheme = "attachment:"

// attachmentTypes lists the attachment payloads that can be extracted, in
// preference order.
var attachmentTypes = []struct {
	mime string
	ext  string
}{
	{notebook.MimePNG, ".png"},
	{notebook.MimeJPEG, ".jpg"},
	{"image/gif", ".gif"},
	{notebook.MimeSVG, ".svg"},
}

// MarkdownImages collects images referenced from markdown cells into
// Resources.Images and points the rewritten sources at the collected names.
type MarkdownImages struct {
	Logger *zap.Logger
}

// Name implements Preprocessor.
func (MarkdownImages) Name() string { return "markdown-images" }

// Preprocess implements Preprocessor.
func (m MarkdownImages) Preprocess(_ context.Context, nb *notebook.Notebook, res *Resources) error {
	logger := nopIfNil(m.Logger)
	for i, c := range nb.Cells {
		if c.CellType != notebook.CellMarkdown {
			continue
		}
		src, changed := m.rewriteCell(i, c, res, logger)
		if changed {
			res.MarkdownSources[i] = src
		} else {
			delete(res.MarkdownSources, i)
		}
	}
	return nil
}

func (m MarkdownImages) rewriteCell(index int, c *notebook.Cell, res *Resources, logger *zap.Logger) (string, bool) {
	src := c.Source.String()
	matches := imageRefPattern.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, false
	}

	var sb strings.Builder
	last, attachments, images := 0, 0, 0
	changed := false
	for _, loc := range matches {
		refStart, refEnd := loc[4], loc[5]
		ref := strings.TrimSuffix(strings.TrimPrefix(src[refStart:refEnd], "<"), ">")

		var name string
		switch {
		case strings.HasPrefix(ref, attachmentScheme):
			data, ext, ok := attachmentData(c, strings.TrimPrefix(ref, attachmentScheme))
			if !ok {
				logger.Warn("markdown attachment not found", zap.Int("cell", index), zap.String("ref", ref))
				continue
			}
			name = fmt.Sprintf("markdown_%d_attachment_%d%s", index, attachments, ext)
			attachments++
			res.Images[name] = data
		case fileutil.IsLocalRelative(ref):
			data, err := readLocalImage(res.Path, ref)
			if err != nil {
				logger.Warn("markdown image skipped", zap.Int("cell", index), zap.String("ref", ref), zap.Error(err))
				continue
			}
			name = fmt.Sprintf("markdown_%d_image_%d%s", index, images, strings.ToLower(filepath.Ext(refPath(ref))))
			images++
			res.Images[name] = data
		default:
			continue
		}

		sb.WriteString(src[last:refStart])
		sb.WriteString(name)
		last = refEnd
		changed = true
	}
	if !changed {
		return src, false
	}
	sb.WriteString(src[last:])
	return sb.String(), true
}

// attachmentData decodes the named attachment of c.
func attachmentData(c *notebook.Cell, name string) ([]byte, string, bool) {
	bundle, ok := c.Attachments[name]
	if !ok {
		return nil, "", false
	}
	for _, t := range attachmentTypes {
		if !bundle.Has(t.mime) {
			continue
		}
		text := bundle.Text(t.mime)
		if t.mime == notebook.MimeSVG {
			return []byte(text), t.ext, true
		}
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, "", false
		}
		return data, t.ext, true
	}
	return nil, "", false
}

// refPath strips any query or fragment and URL escapes from a local reference.
func refPath(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if p, err := url.PathUnescape(ref); err == nil {
		return p
	}
	return ref
}

func readLocalImage(dir, ref string) ([]byte, error) {
	path := filepath.Join(dir, filepath.FromSlash(refPath(ref)))
	data, err := os.ReadFile(path) // #nosec G304 -- path referenced by the notebook being converted
	if err != nil {
		return nil, err
	}
	return data, nil
}

var _ Preprocessor = MarkdownImages{}
