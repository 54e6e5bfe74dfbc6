// Package extractioninfra provides ResultStore implementations.
package extractioninfra

import (
	"context"
	"encoding/json"

	"github.com/pdfscope/pdfscope/pkg/errx"
	"github.com/pdfscope/pdfscope/pkg/extraction"
	"github.com/pdfscope/pdfscope/pkg/fsx"
)

const resultPrefix = "results"

// StorageResultStore persists extraction responses as JSON documents in fsx
// storage.
type StorageResultStore struct {
	fs fsx.FileSystem
}

func NewStorageResultStore(fs fsx.FileSystem) *StorageResultStore {
	return &StorageResultStore{fs: fs}
}

func (s *StorageResultStore) Save(ctx context.Context, id string, resp *extraction.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return errx.Wrap(err, "encoding extraction result", errx.TypeInternal)
	}
	return s.fs.WriteFile(ctx, s.fs.Join(resultPrefix, id+"_result.json"), data)
}

func (s *StorageResultStore) Load(ctx context.Context, id string) (*extraction.Response, error) {
	data, err := s.fs.ReadFile(ctx, s.fs.Join(resultPrefix, id+"_result.json"))
	if err != nil {
		return nil, errx.Wrap(err, "reading extraction result", errx.TypeNotFound)
	}
	var resp extraction.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errx.Wrap(err, "decoding extraction result", errx.TypeInternal)
	}
	return &resp, nil
}
