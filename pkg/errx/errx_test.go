package errx

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrapPreservesCode(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("BOOM", TypeBusiness, http.StatusUnprocessableEntity, "it went boom")

	inner := reg.NewWithCause(code, errors.New("root cause"))
	outer := Wrap(inner, "while doing the thing", TypeInternal)

	if outer.Code != "TEST_BOOM" {
		t.Errorf("wrapped code = %q, want TEST_BOOM", outer.Code)
	}
	if outer.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("wrapped status = %d, want 422", outer.HTTPStatus)
	}
	if !errors.Is(outer, inner) {
		t.Error("wrapped error should match inner via errors.Is")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "nothing", TypeInternal) != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		typ  Type
		want int
	}{
		{TypeValidation, http.StatusBadRequest},
		{TypeNotFound, http.StatusNotFound},
		{TypeUnavailable, http.StatusServiceUnavailable},
		{TypeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := New("x", tt.typ).HTTPStatus; got != tt.want {
			t.Errorf("New(%s).HTTPStatus = %d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestWithDetail(t *testing.T) {
	e := Validation("bad input").WithDetail("field", "filename")
	if e.Details["field"] != "filename" {
		t.Errorf("detail not recorded: %v", e.Details)
	}
}
