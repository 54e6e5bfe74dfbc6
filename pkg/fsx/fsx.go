// Package fsx abstracts file storage so domain code never touches paths or
// SDKs directly. Backends exist for local disk, S3, and memory (tests).
package fsx

import (
	"context"
	"io"
	"time"
)

// FileInfo describes a stored file.
type FileInfo struct {
	Name        string            // Base name of the file
	Size        int64             // File size in bytes
	ModTime     time.Time         // Modification time
	IsDir       bool              // Is a directory
	ContentType string            // MIME type (when available)
	Metadata    map[string]string // Additional metadata
}

// FileReader provides read-only operations.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	List(ctx context.Context, path string) ([]FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter provides write operations. WriteFileAtomic must never expose a
// partially-written file to a concurrent reader: the file is either absent or
// complete.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	WriteFileAtomic(ctx context.Context, path string, data []byte) error
	CreateDir(ctx context.Context, path string) error
}

// FileDeleter provides deletion operations.
type FileDeleter interface {
	DeleteFile(ctx context.Context, path string) error
}

// PathOperations provides path manipulation.
type PathOperations interface {
	Join(elem ...string) string
}

// FileSystem combines all file operations.
type FileSystem interface {
	FileReader
	FileWriter
	FileDeleter
	PathOperations
}

// LocalPather is implemented by backends whose files live on the local disk
// and can be handed to libraries that require an OS path.
type LocalPather interface {
	LocalPath(path string) string
}
