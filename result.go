package dfimage

import (
	"maps"
	"slices"
)

// NotebookSuffix is appended to the notebook name when the converted
// notebook is saved.
const NotebookSuffix = "_dataframe_image"

// imageDirSuffix is appended to the notebook name to name the Markdown
// image directory.
const imageDirSuffix = "_files"

// Result holds the documents produced by one conversion. Fields for formats
// that were not requested are empty.
type Result struct {
	DocumentName string // base name of the .md and .pdf files
	ImageDirName string // directory the Markdown images go to

	Markdown       []byte
	MarkdownImages map[string][]byte // file name -> bytes, under ImageDirName
	PDF            []byte

	Notebook     []byte // converted notebook, when saved
	NotebookName string // file name of Notebook

	// Files lists the paths written by Convert, in write order.
	Files []string
}

// ImageNames returns the Markdown image file names in sorted order.
func (r *Result) ImageNames() []string {
	return slices.Sorted(maps.Keys(r.MarkdownImages))
}
