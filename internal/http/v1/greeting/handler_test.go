package greeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	applog "github.com/janisto/greeting-service/internal/platform/logging"
	appmiddleware "github.com/janisto/greeting-service/internal/platform/middleware"
	"github.com/janisto/greeting-service/internal/platform/respond"
	greetingsvc "github.com/janisto/greeting-service/internal/service/greeting"
)

func newTestRouter(svc greetingsvc.Service) chi.Router {
	respond.Install()
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())
	router.Use(
		appmiddleware.RequestID(),
		appmiddleware.DefaultContentType(),
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("GreetingTest", "test"))
	Register(api, svc)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path, body, requestID string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(chimiddleware.RequestIDHeader, requestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder) Data {
	t.Helper()
	var data Data
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	return data
}

func TestGetJSONInitialGreeting(t *testing.T) {
	router := newTestRouter(greetingsvc.NewStore())

	resp := doJSON(t, router, http.MethodGet, "/", "", "greeting-get-json")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if got := decodeData(t, resp); got.Msg != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", got.Msg)
	}
}

func TestGetCBOR(t *testing.T) {
	router := newTestRouter(greetingsvc.NewStore())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Errorf("expected application/cbor, got %s", ct)
	}
	var data Data
	if err := cbor.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if data.Msg != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", data.Msg)
	}
}

func TestSetThenGetRoundTrip(t *testing.T) {
	values := []string{"Howdy", "", "Grüß Gott", "<b>bold</b> & \"quoted\"", strings.Repeat("x", 5000), strings.Repeat("y", 64<<10)}

	for _, v := range values {
		name := v
		if len(name) > 20 {
			name = name[:20]
		}
		t.Run(name, func(t *testing.T) {
			router := newTestRouter(greetingsvc.NewStore())
			body, err := json.Marshal(Data{Msg: v})
			if err != nil {
				t.Fatalf("json marshal: %v", err)
			}

			resp := doJSON(t, router, http.MethodPost, "/set", string(body), "greeting-set")
			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
			}
			if echoed := decodeData(t, resp); echoed.Msg != v {
				t.Fatalf("expected echo %q, got %q", v, echoed.Msg)
			}

			resp = doJSON(t, router, http.MethodGet, "/", "", "greeting-get")
			if got := decodeData(t, resp); got.Msg != v {
				t.Fatalf("expected %q after set, got %q", v, got.Msg)
			}
		})
	}
}

func TestSetIsIdempotent(t *testing.T) {
	router := newTestRouter(greetingsvc.NewStore())

	for i := range 3 {
		resp := doJSON(t, router, http.MethodPost, "/set", `{"msg":"again"}`, fmt.Sprintf("idem-%d", i))
		if resp.Code != http.StatusOK {
			t.Fatalf("post %d: expected 200, got %d", i, resp.Code)
		}
		if got := decodeData(t, doJSON(t, router, http.MethodGet, "/", "", "idem-get")); got.Msg != "again" {
			t.Fatalf("after post %d: expected 'again', got %q", i, got.Msg)
		}
	}
}

func TestSetCBOR(t *testing.T) {
	svc := greetingsvc.NewStore()
	router := newTestRouter(svc)

	body, err := cbor.Marshal(map[string]string{"msg": "CBOR hello"})
	if err != nil {
		t.Fatalf("cbor marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/set", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/cbor")
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Errorf("expected application/cbor, got %s", ct)
	}
	if got := svc.Get(context.Background()); got != "CBOR hello" {
		t.Fatalf("expected store to hold 'CBOR hello', got %q", got)
	}
}

func TestSetWithoutJSONContentTypeStillParsesJSON(t *testing.T) {
	svc := greetingsvc.NewStore()
	router := newTestRouter(svc)

	for _, ct := range []string{"", "text/plain", "application/x-www-form-urlencoded"} {
		req := httptest.NewRequest(http.MethodPost, "/set", strings.NewReader(`{"msg":"from curl"}`))
		if ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("content type %q: expected 200, got %d: %s", ct, resp.Code, resp.Body.String())
		}
	}
	if got := svc.Get(context.Background()); got != "from curl" {
		t.Fatalf("expected 'from curl', got %q", got)
	}
}

func TestSetRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `not json`},
		{"truncated", `{"msg":`},
		{"array", `["hi"]`},
		{"bare string", `"hi"`},
		{"missing msg", `{}`},
		{"number msg", `{"msg":42}`},
		{"null msg", `{"msg":null}`},
		{"object msg", `{"msg":{"text":"hi"}}`},
		{"over body limit", `{"msg":"` + strings.Repeat("x", 1<<20) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := greetingsvc.NewStore()
			router := newTestRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/set", strings.NewReader(tt.body))
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %.200s", resp.Code, resp.Body.String())
			}
			if ct := resp.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("expected application/problem+json, got %s", ct)
			}
			var problem huma.ErrorModel
			if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
				t.Fatalf("json unmarshal: %v", err)
			}
			if problem.Status != http.StatusBadRequest || problem.Title != "Bad Request" {
				t.Errorf("unexpected problem: %+v", problem)
			}
			if got := svc.Get(context.Background()); got != greetingsvc.DefaultMessage {
				t.Fatalf("store changed to %q after rejected body", got)
			}
		})
	}
}

func TestSetIgnoresUnknownFields(t *testing.T) {
	svc := greetingsvc.NewStore()
	router := newTestRouter(svc)

	resp := doJSON(t, router, http.MethodPost, "/set", `{"msg":"hi","extra":true,"n":[1,2]}`, "extra-fields")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := decodeData(t, resp); got.Msg != "hi" {
		t.Fatalf("expected echo 'hi', got %q", got.Msg)
	}
	if got := svc.Get(context.Background()); got != "hi" {
		t.Fatalf("expected store to hold 'hi', got %q", got)
	}
}

func TestSetEmptyBodyIsBadRequest(t *testing.T) {
	svc := greetingsvc.NewStore()
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/set", nil)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if got := svc.Get(context.Background()); got != greetingsvc.DefaultMessage {
		t.Fatalf("store changed to %q", got)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	router := newTestRouter(greetingsvc.NewStore())

	if resp := doJSON(t, router, http.MethodGet, "/nonexistent", "", "unknown"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp := doJSON(t, router, http.MethodGet, "/set", "", "wrong-method")
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	if allow := resp.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("expected Allow: POST, got %q", allow)
	}
}

func TestConcurrentSetsLeaveOnePostedValue(t *testing.T) {
	svc := greetingsvc.NewStore()
	router := newTestRouter(svc)

	const n = 32
	values := make([]string, n)
	for i := range values {
		values[i] = fmt.Sprintf("concurrent-%02d", i)
	}

	var wg sync.WaitGroup
	codes := make([]int, n)
	for i, v := range values {
		wg.Add(1)
		go func(i int, v string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/set", strings.NewReader(`{"msg":"`+v+`"}`))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			codes[i] = resp.Code
		}(i, v)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	got := decodeData(t, doJSON(t, router, http.MethodGet, "/", "", "after-concurrent"))
	if !slices.Contains(values, got.Msg) {
		t.Fatalf("final greeting %q is not one of the posted values", got.Msg)
	}
}
