// Package fsxmem implements fsx.FileSystem in memory. It exists for tests and
// for exercising cache-atomicity contracts without touching the disk.
package fsxmem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdfscope/pdfscope/pkg/fsx"
)

// MemoryFileSystem is a threadsafe in-memory fsx.FileSystem.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]memFile

	// Writes counts completed write operations per path, letting tests
	// assert cache idempotence.
	writes map[string]int
}

type memFile struct {
	data    []byte
	modTime time.Time
}

// New creates an empty in-memory file system.
func New() *MemoryFileSystem {
	return &MemoryFileSystem{
		files:  make(map[string]memFile),
		writes: make(map[string]int),
	}
}

func (m *MemoryFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[clean(p)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", p)
	}
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out, nil
}

func (m *MemoryFileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	data, err := m.ReadFile(ctx, p)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryFileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[clean(p)]
	if !ok {
		return fsx.FileInfo{}, fmt.Errorf("file not found: %s", p)
	}
	return fsx.FileInfo{
		Name:     path.Base(clean(p)),
		Size:     int64(len(f.data)),
		ModTime:  f.modTime,
		Metadata: make(map[string]string),
	}, nil
}

func (m *MemoryFileSystem) List(ctx context.Context, dir string) ([]fsx.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := clean(dir)
	if prefix != "" {
		prefix += "/"
	}

	var infos []fsx.FileInfo
	for p, f := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		infos = append(infos, fsx.FileInfo{
			Name:     rest,
			Size:     int64(len(f.data)),
			ModTime:  f.modTime,
			Metadata: make(map[string]string),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (m *MemoryFileSystem) Exists(ctx context.Context, p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[clean(p)]
	return ok, nil
}

func (m *MemoryFileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clean(p)
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[cp] = memFile{data: stored, modTime: time.Now()}
	m.writes[cp]++
	return nil
}

func (m *MemoryFileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return m.WriteFile(ctx, p, data)
}

// WriteFileAtomic is identical to WriteFile: map assignment under the lock is
// already all-or-nothing.
func (m *MemoryFileSystem) WriteFileAtomic(ctx context.Context, p string, data []byte) error {
	return m.WriteFile(ctx, p, data)
}

func (m *MemoryFileSystem) CreateDir(ctx context.Context, p string) error { return nil }

func (m *MemoryFileSystem) DeleteFile(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, clean(p))
	return nil
}

func (m *MemoryFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// WriteCount returns how many completed writes the path has received.
func (m *MemoryFileSystem) WriteCount(p string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes[clean(p)]
}

func clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}
