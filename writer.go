package dfimage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alnah/go-dfimage/internal/fileutil"
)

// File permissions for written outputs.
const (
	outputFilePerm = 0o644
	outputDirPerm  = 0o755
)

// partNotebook names the saved notebook among the parts handed to writePart.
const partNotebook = "notebook"

// writePart writes one finished part of res under dir and records the paths
// in res.Files. The Markdown image directory is recreated from scratch.
func writePart(res *Result, part, dir string, logger *zap.Logger) error {
	switch part {
	case FormatMarkdown:
		imgDir := filepath.Join(dir, res.ImageDirName)
		if err := fileutil.ReplaceDir(imgDir, outputDirPerm); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		for _, name := range res.ImageNames() {
			if err := writeFile(res, filepath.Join(imgDir, name), res.MarkdownImages[name], logger); err != nil {
				return err
			}
		}
		return writeFile(res, filepath.Join(dir, res.DocumentName+".md"), res.Markdown, logger)
	case FormatPDF:
		return writeFile(res, filepath.Join(dir, res.DocumentName+".pdf"), res.PDF, logger)
	case partNotebook:
		return writeFile(res, filepath.Join(dir, res.NotebookName), res.Notebook, logger)
	default:
		return fmt.Errorf("%w: unknown part %q", ErrWriteOutput, part)
	}
}

func writeFile(res *Result, path string, data []byte, logger *zap.Logger) error {
	if err := os.WriteFile(path, data, outputFilePerm); err != nil { // #nosec G306 -- documents are meant to be shared
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	res.Files = append(res.Files, path)
	logger.Info("written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
