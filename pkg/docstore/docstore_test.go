package docstore

import (
	"context"
	"strings"
	"testing"

	"github.com/pdfscope/pdfscope/pkg/errx"
	"github.com/pdfscope/pdfscope/pkg/fsx/fsxmem"
)

func TestSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	store := New(fsxmem.New())

	name, err := store.Save(ctx, "report.pdf", strings.NewReader("%PDF-1.7 fake"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, "_report.pdf") {
		t.Fatalf("stored name %q does not keep the original base name", name)
	}
	if strings.ContainsAny(name, "/\\") {
		t.Fatalf("stored name %q contains a path separator", name)
	}

	ok, err := store.Exists(ctx, name)
	if err != nil || !ok {
		t.Fatalf("Exists(%q) = %v, %v; want true, nil", name, ok, err)
	}

	rc, err := store.Open(ctx, name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
}

func TestSaveUniqueNames(t *testing.T) {
	ctx := context.Background()
	store := New(fsxmem.New())

	a, err := store.Save(ctx, "doc.pdf", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := store.Save(ctx, "doc.pdf", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if a == b {
		t.Fatalf("two uploads of the same file got the same stored name %q", a)
	}
}

func TestSaveStripsClientPath(t *testing.T) {
	ctx := context.Background()
	store := New(fsxmem.New())

	name, err := store.Save(ctx, "/tmp/evil/../doc.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		t.Fatalf("stored name %q was not reduced to a base name", name)
	}
}

func TestSaveRejectsNonPDF(t *testing.T) {
	ctx := context.Background()
	store := New(fsxmem.New())

	_, err := store.Save(ctx, "notes.txt", strings.NewReader("x"))
	var e *errx.Error
	if !errx.As(err, &e) || e.Code != CodeNotPDF.Code {
		t.Fatalf("Save(notes.txt) error = %v, want %s", err, CodeNotPDF.Code)
	}
}

func TestValidateName(t *testing.T) {
	bad := []string{
		"",
		"../secret.pdf",
		"/etc/passwd",
		"a/../b.pdf",
		"dir/file.pdf",
		`dir\file.pdf`,
	}
	for _, name := range bad {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) accepted a traversal-capable name", name)
		}
	}
	if err := ValidateName("ab12cd34_report.pdf"); err != nil {
		t.Errorf("ValidateName rejected a normal stored name: %v", err)
	}
}

func TestOpenMissing(t *testing.T) {
	ctx := context.Background()
	store := New(fsxmem.New())

	_, err := store.Open(ctx, "ab12cd34_missing.pdf")
	var e *errx.Error
	if !errx.As(err, &e) || e.Code != CodeNotFound.Code {
		t.Fatalf("Open(missing) error = %v, want %s", err, CodeNotFound.Code)
	}
}

func TestMaterializeMemoryBacked(t *testing.T) {
	ctx := context.Background()
	store := New(fsxmem.New())

	name, err := store.Save(ctx, "doc.pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	path, cleanup, err := store.Materialize(ctx, name)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	defer cleanup()
	if path == "" {
		t.Fatal("Materialize returned an empty path")
	}
}
