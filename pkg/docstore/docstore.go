// Package docstore manages uploaded PDF documents on top of fsx storage.
package docstore

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pdfscope/pdfscope/pkg/errx"
	"github.com/pdfscope/pdfscope/pkg/fsx"
)

// Errors holds the document store's error codes.
var Errors = errx.NewRegistry("DOCSTORE")

var (
	CodeInvalidFilename = Errors.Register("INVALID_FILENAME", errx.TypeValidation, http.StatusBadRequest, "invalid filename")
	CodeNotFound        = Errors.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "document not found")
	CodeNotPDF          = Errors.Register("NOT_PDF", errx.TypeValidation, http.StatusBadRequest, "only PDF files are accepted")
)

const uploadPrefix = "uploads"

// Store saves and resolves uploaded documents. Stored names are prefixed with
// a random hex ID so repeated uploads of the same file never collide.
type Store struct {
	fs fsx.FileSystem
}

func New(fs fsx.FileSystem) *Store {
	return &Store{fs: fs}
}

// Save stores an uploaded document and returns its stored name.
func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	base := filepath.Base(originalName)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", Errors.New(CodeInvalidFilename)
	}
	if !strings.EqualFold(filepath.Ext(base), ".pdf") {
		return "", Errors.New(CodeNotPDF).WithDetail("filename", base)
	}

	name := strings.ReplaceAll(uuid.New().String(), "-", "")[:8] + "_" + base
	if err := s.fs.WriteFileStream(ctx, s.fs.Join(uploadPrefix, name), r); err != nil {
		return "", errx.Wrap(err, "storing upload", errx.TypeInternal)
	}
	return name, nil
}

// Exists reports whether a stored document exists. The name is validated
// before storage is consulted.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	return s.fs.Exists(ctx, s.fs.Join(uploadPrefix, name))
}

// Open returns a stream over a stored document.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	rc, err := s.fs.ReadFileStream(ctx, s.fs.Join(uploadPrefix, name))
	if err != nil {
		return nil, Errors.NewWithCause(CodeNotFound, err).WithDetail("filename", name)
	}
	return rc, nil
}

// Stat returns metadata for a stored document.
func (s *Store) Stat(ctx context.Context, name string) (fsx.FileInfo, error) {
	if err := ValidateName(name); err != nil {
		return fsx.FileInfo{}, err
	}
	info, err := s.fs.Stat(ctx, s.fs.Join(uploadPrefix, name))
	if err != nil {
		return fsx.FileInfo{}, Errors.NewWithCause(CodeNotFound, err).WithDetail("filename", name)
	}
	return info, nil
}

// Materialize returns a local OS path to the document so PDF libraries that
// only accept paths can open it. For local storage this is the file itself;
// otherwise the document is copied to a temp file and cleanup removes it.
func (s *Store) Materialize(ctx context.Context, name string) (path string, cleanup func(), err error) {
	if err := ValidateName(name); err != nil {
		return "", nil, err
	}

	key := s.fs.Join(uploadPrefix, name)
	if lp, ok := s.fs.(fsx.LocalPather); ok {
		exists, err := s.fs.Exists(ctx, key)
		if err != nil {
			return "", nil, err
		}
		if !exists {
			return "", nil, Errors.New(CodeNotFound).WithDetail("filename", name)
		}
		return lp.LocalPath(key), func() {}, nil
	}

	rc, err := s.fs.ReadFileStream(ctx, key)
	if err != nil {
		return "", nil, Errors.NewWithCause(CodeNotFound, err).WithDetail("filename", name)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp("", "pdfscope-*.pdf")
	if err != nil {
		return "", nil, errx.Wrap(err, "creating temp document", errx.TypeInternal)
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, errx.Wrap(err, "copying document to temp file", errx.TypeInternal)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, errx.Wrap(err, "closing temp document", errx.TypeInternal)
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

// ValidateName rejects stored names that could escape the uploads prefix.
func ValidateName(name string) error {
	if name == "" ||
		strings.Contains(name, "..") ||
		strings.HasPrefix(name, "/") ||
		strings.HasPrefix(name, "\\") ||
		strings.ContainsAny(name, "/\\") {
		return Errors.New(CodeInvalidFilename).WithDetail("filename", name)
	}
	return nil
}
