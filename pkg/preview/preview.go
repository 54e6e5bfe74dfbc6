// Package preview renders and caches page preview images.
package preview

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfscope/pdfscope/pkg/docstore"
	"github.com/pdfscope/pdfscope/pkg/extraction"
	"github.com/pdfscope/pdfscope/pkg/logx"
	"github.com/pdfscope/pdfscope/pkg/raster"
)

// Cache stores rendered previews keyed by document, page, and DPI. Put must
// never let a concurrent Get observe a partially-written value.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Service renders page previews on demand and caches them. Renders for the
// same key are serialized so concurrent requests do not duplicate work.
type Service struct {
	docs     *docstore.Store
	renderer raster.Renderer
	cache    Cache
	dpi      int

	mu    sync.Mutex
	locks map[string]*keyLock
}

// keyLock serializes renders for one cache key. refs counts the waiters so
// the entry can be dropped once the last one releases.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(docs *docstore.Store, renderer raster.Renderer, cache Cache, dpi int) *Service {
	return &Service{
		docs:     docs,
		renderer: renderer,
		cache:    cache,
		dpi:      dpi,
		locks:    make(map[string]*keyLock),
	}
}

// DPI returns the resolution previews are rendered at.
func (s *Service) DPI() int { return s.dpi }

// Render returns the PNG preview of one page, rendering and caching it on
// first access. Page is zero-based.
func (s *Service) Render(ctx context.Context, name string, page int) ([]byte, error) {
	if err := docstore.ValidateName(name); err != nil {
		return nil, err
	}
	if page < 0 {
		return nil, extraction.ErrPageOutOfRange(page, 0)
	}

	key := CacheKey(name, page, s.dpi)

	s.acquireKey(key)
	defer s.releaseKey(key)

	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	} else if err != nil {
		logx.WithField("key", key).WithError(err).Warn("preview cache read failed")
	}

	path, cleanup, err := s.docs.Materialize(ctx, name)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	doc, err := s.renderer.Open(path)
	if err != nil {
		return nil, extraction.ErrRenderFailed(err)
	}
	defer doc.Close()

	if page >= doc.PageCount() {
		return nil, extraction.ErrPageOutOfRange(page, doc.PageCount())
	}

	rendered, err := doc.RenderPNG(page, s.dpi)
	if err != nil {
		return nil, extraction.ErrRenderFailed(err)
	}

	if err := s.cache.Put(ctx, key, rendered.PNG); err != nil {
		// A failed cache write only costs a re-render next time.
		logx.WithField("key", key).WithError(err).Warn("preview cache write failed")
	}
	return rendered.PNG, nil
}

func (s *Service) acquireKey(key string) {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()
	l.mu.Lock()
}

func (s *Service) releaseKey(key string) {
	s.mu.Lock()
	l := s.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(s.locks, key)
	}
	s.mu.Unlock()
	l.mu.Unlock()
}

// CacheKey builds the cache key for one page preview.
func CacheKey(name string, page, dpi int) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return fmt.Sprintf("%s_p%d_%d.png", stem, page, dpi)
}
