package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/premhub/premier-hub/internal/domain/standing"
	"github.com/premhub/premier-hub/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected Content-Type: %q", got)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}

	items, ok := errorObj["errors"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one error item, got %v", errorObj["errors"])
	}
	item, _ := items[0].(map[string]any)
	if got, _ := item["domain"].(string); got != "premier-hub" {
		t.Fatalf("unexpected error domain: %v", item["domain"])
	}
	if got, _ := item["reason"].(string); got != "invalidInput" {
		t.Fatalf("unexpected error reason: %v", item["reason"])
	}
}

func TestWriteInternalError_MasksMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeInternalError(context.Background(), rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	errorObj, _ := body["error"].(map[string]any)
	if got, _ := errorObj["message"].(string); got != "internal server error" {
		t.Fatalf("expected masked message, got %v", errorObj["message"])
	}
	if got, _ := errorObj["status"].(string); got != "INTERNAL" {
		t.Fatalf("expected status INTERNAL, got %v", errorObj["status"])
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantHTTP   int
		wantReason string
		wantStatus string
	}{
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: season id is required", usecase.ErrInvalidInput),
			wantHTTP:   http.StatusBadRequest,
			wantReason: "invalidInput",
			wantStatus: "INVALID_ARGUMENT",
		},
		{
			name:       "duplicate team",
			err:        fmt.Errorf("rank standings: %w", standing.ErrDuplicateTeam),
			wantHTTP:   http.StatusBadRequest,
			wantReason: "invalidInput",
			wantStatus: "INVALID_ARGUMENT",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w: match", usecase.ErrNotFound),
			wantHTTP:   http.StatusNotFound,
			wantReason: "notFound",
			wantStatus: "NOT_FOUND",
		},
		{
			name:       "unauthorized",
			err:        usecase.ErrUnauthorized,
			wantHTTP:   http.StatusUnauthorized,
			wantReason: "unauthorized",
			wantStatus: "UNAUTHENTICATED",
		},
		{
			name:       "forbidden",
			err:        usecase.ErrForbidden,
			wantHTTP:   http.StatusForbidden,
			wantReason: "forbidden",
			wantStatus: "PERMISSION_DENIED",
		},
		{
			name:       "dependency unavailable",
			err:        fmt.Errorf("%w: backend down", usecase.ErrDependencyUnavailable),
			wantHTTP:   http.StatusServiceUnavailable,
			wantReason: "dependencyUnavailable",
			wantStatus: "UNAVAILABLE",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantHTTP:   http.StatusInternalServerError,
			wantReason: "internalError",
			wantStatus: "INTERNAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err)
			if mapped.HTTPStatus != tt.wantHTTP {
				t.Fatalf("expected http status %d, got %d", tt.wantHTTP, mapped.HTTPStatus)
			}
			if mapped.Reason != tt.wantReason {
				t.Fatalf("expected reason %q, got %q", tt.wantReason, mapped.Reason)
			}
			if mapped.Status != tt.wantStatus {
				t.Fatalf("expected status %q, got %q", tt.wantStatus, mapped.Status)
			}
		})
	}
}
