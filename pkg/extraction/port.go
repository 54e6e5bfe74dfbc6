package extraction

import (
	"context"
	"strings"
)

// Pipeline is one extraction strategy over a whole document. Extract returns
// the per-page results, or an error when the pipeline cannot produce any
// pages at all; per-page trouble is reported inside the PageResult instead.
//
// Extract must be safe to call concurrently with other pipelines' Extract on
// the same document.
type Pipeline interface {
	// ID is the stable identifier clients select the pipeline by.
	ID() string
	// Available reports whether the pipeline's runtime dependencies are
	// present. Unavailable pipelines stay registered so clients can
	// discover them.
	Available() bool
	Extract(ctx context.Context, doc Document, dpi int) ([]PageResult, error)
}

// Registry holds the known pipelines in registration order.
type Registry struct {
	order     []string
	pipelines map[string]Pipeline
}

func NewRegistry(pipelines ...Pipeline) *Registry {
	r := &Registry{pipelines: make(map[string]Pipeline, len(pipelines))}
	for _, p := range pipelines {
		if _, dup := r.pipelines[p.ID()]; dup {
			continue
		}
		r.order = append(r.order, p.ID())
		r.pipelines[p.ID()] = p
	}
	return r
}

func (r *Registry) Get(id string) (Pipeline, bool) {
	p, ok := r.pipelines[id]
	return p, ok
}

// IDs returns the registered pipeline IDs in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the registered pipelines in registration order.
func (r *Registry) All() []Pipeline {
	out := make([]Pipeline, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.pipelines[id])
	}
	return out
}

// Filter resolves a requested ID list against the registry. Unknown IDs are
// dropped silently as long as at least one known ID remains; duplicates are
// collapsed to the first occurrence. When nothing known was requested the
// request is invalid and the error names the supported set.
func (r *Registry) Filter(requested []string) ([]Pipeline, error) {
	var (
		out  []Pipeline
		seen = make(map[string]bool, len(requested))
	)
	for _, id := range requested {
		p, ok := r.pipelines[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, ErrInvalidRequest(
			"no valid pipelines requested; supported: " + strings.Join(r.IDs(), ", "))
	}
	return out, nil
}

// ResultStore persists finished extraction responses so they can be fetched
// again after the request returns.
type ResultStore interface {
	Save(ctx context.Context, id string, resp *Response) error
	Load(ctx context.Context, id string) (*Response, error)
}
