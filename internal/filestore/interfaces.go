package filestore

import "context"

// Folder is a destination folder handle in the file store.
type Folder struct {
	// ID is the opaque store-assigned identifier.
	ID string

	// Name is the human-readable folder name; the store does not enforce
	// uniqueness of names.
	Name string

	// Link is the browsable URL of the folder.
	Link string
}

// API is the file-store surface consumed by the resolver and the pipeline.
// This interface enables mocking and testing of file-store functionality.
type API interface {
	// FindFolder returns the first non-trashed folder with exactly the
	// given name, in store-defined order, or nil when none exists.
	FindFolder(ctx context.Context, name string) (*Folder, error)

	// CreateFolder creates a folder with the given name and returns its
	// freshly assigned handle.
	CreateFolder(ctx context.Context, name string) (*Folder, error)

	// UploadPDF stores the given bytes as a file inside folderID,
	// preserving the original filename, and returns a stable view link.
	UploadPDF(ctx context.Context, folderID, filename string, data []byte) (string, error)
}
