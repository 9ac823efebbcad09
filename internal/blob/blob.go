// Package blob stores uploaded video binaries as opaque blobs keyed by
// filename. The catalogue only ever references blobs by that key.
package blob

import (
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

type Store interface {
	// Save streams r into a new blob under filename, replacing any
	// existing blob with the same key.
	Save(filename string, r io.Reader) (int64, error)
	// Path resolves filename to a servable location on local disk.
	// Returns ErrNotFound when no such blob exists.
	Path(filename string) (string, error)
	Remove(filename string) error
}
