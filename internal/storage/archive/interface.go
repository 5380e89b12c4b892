// internal/storage/archive/interface.go
package archive

import "context"

// Storage is a flat blob store addressed by slash-separated paths.
// Series files and result documents are kept in it.
type Storage interface {
	// Write stores data at path, replacing any previous content
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the data at path; a missing path yields core.ErrSeriesNotFound
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns the paths under prefix, relative to the storage root
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if data exists at path
	Exists(ctx context.Context, path string) (bool, error)
}
