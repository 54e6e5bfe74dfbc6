// Package extractionsrv orchestrates extraction pipelines over uploaded
// documents.
package extractionsrv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdfscope/pdfscope/pkg/asyncx"
	"github.com/pdfscope/pdfscope/pkg/docstore"
	"github.com/pdfscope/pdfscope/pkg/extraction"
	"github.com/pdfscope/pdfscope/pkg/logx"
)

// SummaryTextLimit caps how much page text goes into the summary per
// pipeline.
const SummaryTextLimit = 2000

// DefaultPipelines is used when a request names no pipelines.
var DefaultPipelines = []string{"structural"}

// Request selects what to extract. An empty Pipelines list means
// DefaultPipelines.
type Request struct {
	Filename  string   `json:"filename"`
	Pipelines []string `json:"pipelines"`
}

// PipelineInfo describes one registered pipeline to clients.
type PipelineInfo struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
}

// Service runs the selected pipelines concurrently and aggregates their
// results. One pipeline failing, panicking, or timing out never affects the
// others.
type Service struct {
	registry *extraction.Registry
	docs     *docstore.Store
	results  extraction.ResultStore
	dpi      int
	timeout  time.Duration
}

func New(registry *extraction.Registry, docs *docstore.Store, results extraction.ResultStore, dpi int, timeout time.Duration) *Service {
	return &Service{
		registry: registry,
		docs:     docs,
		results:  results,
		dpi:      dpi,
		timeout:  timeout,
	}
}

// Pipelines lists the registered pipelines with their availability.
func (s *Service) Pipelines() []PipelineInfo {
	all := s.registry.All()
	out := make([]PipelineInfo, 0, len(all))
	for _, p := range all {
		out = append(out, PipelineInfo{ID: p.ID(), Available: p.Available()})
	}
	return out
}

// Extract runs the requested pipelines over one document. The response has
// an entry for every pipeline that ran, successful or not; the whole call
// fails only when the request itself is unusable.
func (s *Service) Extract(ctx context.Context, req Request) (*extraction.Response, error) {
	if req.Filename == "" {
		return nil, extraction.ErrInvalidRequest("filename is required")
	}
	if err := docstore.ValidateName(req.Filename); err != nil {
		return nil, err
	}

	requested := req.Pipelines
	if len(requested) == 0 {
		requested = DefaultPipelines
	}
	selected, err := s.registry.Filter(requested)
	if err != nil {
		return nil, err
	}

	exists, err := s.docs.Exists(ctx, req.Filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, extraction.ErrDocumentNotFound(req.Filename)
	}

	path, cleanup, err := s.docs.Materialize(ctx, req.Filename)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	doc := extraction.Document{ID: req.Filename, Path: path}

	fns := make([]func(context.Context) ([]extraction.PageResult, error), len(selected))
	for i, p := range selected {
		fns[i] = s.runPipeline(p, doc)
	}
	settled := asyncx.AllSettled(ctx, fns...)

	resp := &extraction.Response{
		Document:  req.Filename,
		Pipelines: make(map[string]*extraction.PipelineResult, len(selected)),
	}
	for i, p := range selected {
		r := settled[i]
		if r.Err != nil {
			logx.WithFields(logx.Fields{"document": req.Filename, "pipeline": p.ID()}).
				WithError(r.Err).Error("pipeline failed")
			resp.Pipelines[p.ID()] = &extraction.PipelineResult{Error: r.Err.Error()}
			continue
		}
		pages := r.Value
		if pages == nil {
			pages = []extraction.PageResult{}
		}
		resp.Pipelines[p.ID()] = &extraction.PipelineResult{Pages: pages}
	}

	resp.Summary = buildSummary(selected, resp.Pipelines)

	s.persist(ctx, resp)
	return resp, nil
}

// runPipeline wraps one pipeline run with the availability check, the
// per-pipeline timeout, and panic containment.
func (s *Service) runPipeline(p extraction.Pipeline, doc extraction.Document) func(context.Context) ([]extraction.PageResult, error) {
	run := func(ctx context.Context) (pages []extraction.PageResult, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				pages, err = nil, fmt.Errorf("pipeline %s panicked: %v", p.ID(), rec)
			}
		}()
		return p.Extract(ctx, doc, s.dpi)
	}

	return func(ctx context.Context) ([]extraction.PageResult, error) {
		if !p.Available() {
			return nil, extraction.ErrPipelineUnavailable(p.ID(),
				fmt.Sprintf("pipeline %s is not available in this deployment", p.ID()))
		}
		if s.timeout <= 0 {
			return run(ctx)
		}
		return asyncx.WithTimeout(ctx, s.timeout, run)
	}
}

// Result loads a previously persisted extraction response.
func (s *Service) Result(ctx context.Context, id string) (*extraction.Response, error) {
	if id == "" || strings.ContainsAny(id, "/\\.") {
		return nil, extraction.ErrResultNotFound(id)
	}
	resp, err := s.results.Load(ctx, id)
	if err != nil {
		return nil, extraction.ErrResultNotFound(id)
	}
	return resp, nil
}

// persist saves the response best effort. Persistence trouble is logged and
// never surfaces to the caller; the response simply lacks a ResultRef.
func (s *Service) persist(ctx context.Context, resp *extraction.Response) {
	if s.results == nil {
		return
	}
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	if err := s.results.Save(ctx, id, resp); err != nil {
		logx.WithField("document", resp.Document).WithError(err).Warn("saving extraction result failed")
		return
	}
	resp.ResultRef = id
}

// buildSummary renders a markdown digest of page 0 of every pipeline that
// produced pages. Pipelines that failed or returned no pages are skipped.
func buildSummary(order []extraction.Pipeline, results map[string]*extraction.PipelineResult) string {
	var blocks []string
	for _, p := range order {
		r := results[p.ID()]
		if r == nil || r.Failed() || len(r.Pages) == 0 {
			continue
		}
		text := truncateRunes(r.Pages[0].Text, SummaryTextLimit)
		blocks = append(blocks, fmt.Sprintf("## %s - page 0 text\n\n```\n%s\n```", p.ID(), text))
	}
	return strings.Join(blocks, "\n\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
