package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	auctiondomain "github.com/ghuser/livebid/services/auction/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"item not found", auctiondomain.ErrItemNotFound, http.StatusNotFound},
		{"wrapped item not found", fmt.Errorf("get item-9: %w", auctiondomain.ErrItemNotFound), http.StatusNotFound},
		{"duplicate item", auctiondomain.ErrDuplicateItem, http.StatusConflict},
		{"invalid item", fmt.Errorf("%w: empty title", auctiondomain.ErrInvalidItem), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("redis: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("unexpected Content-Type %q", ct)
			}
		})
	}
}

func TestWriteError_Body(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantBody string
	}{
		{"client error keeps message", fmt.Errorf("get item-9: %w", auctiondomain.ErrItemNotFound), "get item-9: auction item not found"},
		{"server error is hidden", errors.New("dial tcp 10.0.0.3:6379: refused"), "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("response body is not valid JSON: %v", err)
			}
			if body["error"] != tt.wantBody {
				t.Errorf("error = %q, want %q", body["error"], tt.wantBody)
			}
		})
	}
}
