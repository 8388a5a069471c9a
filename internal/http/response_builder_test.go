package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledger/internal/core"
)

func TestJSONResponseBuilder(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Custom", "1").
		Payload(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if got := w.Header().Get("Content-Type"); got != contentTypeJSON {
		t.Errorf("Content-Type = %q", got)
	}
	if w.Header().Get("X-Custom") != "1" {
		t.Error("custom header not set")
	}
	if w.Body.String() != "{\"n\":1}\n" {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestJSONResponseBuilderNoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)

	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") != "" {
		t.Error("empty response must not claim a content type")
	}
}

func TestJSONResponseBuilderUnencodable(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Payload(make(chan int)).Write(w)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d", w.Code)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", core.Invalid("name", "Name is required"), http.StatusBadRequest, `{"message":"Name is required"}`},
		{"wrapped validation", fmt.Errorf("create: %w", core.Invalid("amount", "bad")), http.StatusBadRequest, `{"message":"bad"}`},
		{"unauthorized", core.Fail(core.ErrUnauthorized, "Invalid credentials"), http.StatusUnauthorized, `{"message":"Invalid credentials"}`},
		{"forbidden", core.Fail(core.ErrForbidden, "Access denied"), http.StatusForbidden, `{"message":"Access denied"}`},
		{"not found", core.Fail(core.ErrNotFound, "Not found"), http.StatusNotFound, `{"message":"Not found"}`},
		{"bare not found", fmt.Errorf("find: %w", core.ErrNotFound), http.StatusNotFound, `{"message":"Not Found"}`},
		{"conflict", core.Fail(core.ErrConflict, "User already exists"), http.StatusConflict, `{"message":"User already exists"}`},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError, `{"message":"Error fetching transactions"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorResponse(tt.err, "Error fetching transactions").Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody+"\n" {
				t.Errorf("Body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestUnauthorizedErrorSetsChallenge(t *testing.T) {
	w := httptest.NewRecorder()
	UnauthorizedError("Invalid token").Write(w)
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Errorf("WWW-Authenticate = %q", w.Header().Get("WWW-Authenticate"))
	}
}
