package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gnelabs/authgate/internal/pkg/goerror"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
)

type loginResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	status int
}

func (l loginResult) StatusCode() int { return l.status }

func newTestRouter() *Router {
	return NewRouter(Config{Instrument: instrument.NewNoop()})
}

func TestRouterWritesPayloadDirectly(t *testing.T) {
	ro := newTestRouter()
	ro.POST("/api/login", func(_ *Request) (any, error) {
		return loginResult{OK: true, status: http.StatusOK}, nil
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not json: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("unexpected body %v", body)
	}
	if _, present := body["data"]; present {
		t.Fatalf("payload should not be wrapped in an envelope: %v", body)
	}
}

func TestRouterHonorsPayloadStatusCode(t *testing.T) {
	ro := newTestRouter()
	ro.POST("/api/login", func(_ *Request) (any, error) {
		return loginResult{Error: "Failed to login.", status: http.StatusUnauthorized}, nil
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouterErrorCodec(t *testing.T) {
	ro := newTestRouter()
	ro.POST("/api/login", func(_ *Request) (any, error) {
		return nil, goerror.NewBusiness("bad request", goerror.CodeInvalidInput)
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not json: %v", err)
	}
	if body["message"] != "bad request" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestRouterUnknownEndpoint(t *testing.T) {
	ro := newTestRouter()

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDecodeBodyRejectsUnknownAndTrailing(t *testing.T) {
	ro := newTestRouter()
	ro.POST("/api/login", func(r *Request) (any, error) {
		var in struct {
			Username string `json:"username"`
		}
		if err := r.DecodeBody(&in); err != nil {
			return nil, err
		}
		return loginResult{OK: true, status: http.StatusOK}, nil
	})

	for _, body := range []string{
		`{"username":"a","extra":1}`,
		`{"username":"a"}{"again":true}`,
		`not-json`,
	} {
		rec := httptest.NewRecorder()
		ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}
