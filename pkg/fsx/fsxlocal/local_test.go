package fsxlocal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFS(t *testing.T) *LocalFileSystem {
	t.Helper()
	fs, err := NewLocalFileSystem(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	data := []byte("hello pdf")
	if err := fs.WriteFile(ctx, "uploads/doc.pdf", data); err != nil {
		t.Fatal(err)
	}

	got, err := fs.ReadFile(ctx, "uploads/doc.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("read %q, want %q", got, data)
	}

	exists, err := fs.Exists(ctx, "uploads/doc.pdf")
	if err != nil || !exists {
		t.Errorf("Exists = (%v, %v), want (true, nil)", exists, err)
	}

	exists, err = fs.Exists(ctx, "uploads/missing.pdf")
	if err != nil || exists {
		t.Errorf("Exists on missing = (%v, %v), want (false, nil)", exists, err)
	}
}

func TestWriteFileStream(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	if err := fs.WriteFileStream(ctx, "a/b/c.txt", strings.NewReader("streamed")); err != nil {
		t.Fatal(err)
	}
	got, err := fs.ReadFile(ctx, "a/b/c.txt")
	if err != nil || string(got) != "streamed" {
		t.Errorf("got (%q, %v)", got, err)
	}
}

func TestWriteFileAtomicLeavesNoTempBehind(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	if err := fs.WriteFileAtomic(ctx, "previews/p0.png", []byte("pngdata")); err != nil {
		t.Fatal(err)
	}

	got, err := fs.ReadFile(ctx, "previews/p0.png")
	if err != nil || string(got) != "pngdata" {
		t.Fatalf("got (%q, %v)", got, err)
	}

	entries, err := os.ReadDir(filepath.Join(fs.BasePath(), "previews"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left visible: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly the final file, got %d entries", len(entries))
	}
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	if err := fs.WriteFileAtomic(ctx, "k.bin", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteFileAtomic(ctx, "k.bin", []byte("two")); err != nil {
		t.Fatal(err)
	}
	got, _ := fs.ReadFile(ctx, "k.bin")
	if string(got) != "two" {
		t.Errorf("got %q after overwrite, want %q", got, "two")
	}
}

func TestDeleteFileIdempotent(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	if err := fs.WriteFile(ctx, "x.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := fs.DeleteFile(ctx, "x.txt"); err != nil {
		t.Errorf("first delete: %v", err)
	}
	if err := fs.DeleteFile(ctx, "x.txt"); err != nil {
		t.Errorf("second delete should be a no-op: %v", err)
	}
}

func TestLocalPath(t *testing.T) {
	fs := newTestFS(t)
	p := fs.LocalPath("uploads/doc.pdf")
	if !strings.HasPrefix(p, fs.BasePath()) {
		t.Errorf("LocalPath %q not under base %q", p, fs.BasePath())
	}
}
