package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/stepflow/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    errors.Code
		message string
	}{
		{"invalid", errors.New(errors.ErrCodeInvalidInput, "bad record"), 400, errors.ErrCodeInvalidInput, "bad record"},
		{"format", errors.New(errors.ErrCodeUnsupportedFormat, "no gif"), 400, errors.ErrCodeUnsupportedFormat, "no gif"},
		{"render", errors.New(errors.ErrCodeRender, "graphviz crashed"), 500, errors.ErrCodeRender, "internal error"},
		{"plain", fmt.Errorf("boom"), 500, errors.ErrCodeInternal, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if got := WriteError(rec, tt.err); got != tt.status {
				t.Errorf("WriteError() = %d, want %d", got, tt.status)
			}
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body ErrorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error.Code != tt.code || body.Error.Message != tt.message {
				t.Errorf("body = %+v, want %s %q", body.Error, tt.code, tt.message)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("generated id %q is not a uuid", seen)
	}
	if rec.Header().Get(HeaderRequestID) != seen {
		t.Error("response header does not echo the id")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Errorf("RequestIDFrom() = %q, want client id kept", seen)
	}
}

func TestRequestIDFrom_Empty(t *testing.T) {
	if got := RequestIDFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context()); got != "" {
		t.Errorf("RequestIDFrom() = %q, want empty", got)
	}
}
