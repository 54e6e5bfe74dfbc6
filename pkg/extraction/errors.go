package extraction

import (
	"net/http"

	"github.com/pdfscope/pdfscope/pkg/errx"
)

// Errors holds the extraction module's error codes.
var Errors = errx.NewRegistry("EXTRACT")

var (
	CodeInvalidRequest      = Errors.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "invalid extraction request")
	CodeDocumentNotFound    = Errors.Register("DOCUMENT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "document not found")
	CodeResultNotFound      = Errors.Register("RESULT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "extraction result not found")
	CodePipelineUnavailable = Errors.Register("PIPELINE_UNAVAILABLE", errx.TypeUnavailable, http.StatusServiceUnavailable, "pipeline dependencies are not installed")
	CodePipelineFailed      = Errors.Register("PIPELINE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "pipeline execution failed")
	CodeRenderFailed        = Errors.Register("RENDER_FAILED", errx.TypeInternal, http.StatusInternalServerError, "page rendering failed")
	CodePageOutOfRange      = Errors.Register("PAGE_OUT_OF_RANGE", errx.TypeValidation, http.StatusBadRequest, "page index out of range")
)

func ErrInvalidRequest(msg string) *errx.Error {
	return Errors.NewWithMessage(CodeInvalidRequest, msg)
}

func ErrDocumentNotFound(name string) *errx.Error {
	return Errors.New(CodeDocumentNotFound).WithDetail("filename", name)
}

func ErrResultNotFound(id string) *errx.Error {
	return Errors.New(CodeResultNotFound).WithDetail("result_id", id)
}

func ErrPipelineUnavailable(id, msg string) *errx.Error {
	return Errors.NewWithMessage(CodePipelineUnavailable, msg).WithDetail("pipeline", id)
}

func ErrPipelineFailed(id string, cause error) *errx.Error {
	return Errors.NewWithCause(CodePipelineFailed, cause).WithDetail("pipeline", id)
}

func ErrRenderFailed(cause error) *errx.Error {
	return Errors.NewWithCause(CodeRenderFailed, cause)
}

func ErrPageOutOfRange(page, pages int) *errx.Error {
	return Errors.New(CodePageOutOfRange).
		WithDetail("page", page).
		WithDetail("pages", pages)
}
