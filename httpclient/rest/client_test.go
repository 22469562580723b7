package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/typedhttp/httpclient"
)

type testUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(httpclient.NewClient("rest-test", nil, httpclient.ClientConfig{BaseURL: srv.URL}))
}

func TestGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/users/1" {
			t.Errorf("expected /users/1, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Accept"); ct != "application/json" {
			t.Errorf("expected Accept: application/json, got %s", ct)
		}
		if r.Header.Get("Content-Type") != "" {
			t.Error("expected no Content-Type without body")
		}
		_ = json.NewEncoder(w).Encode(testUser{Name: "Alice", Email: "alice@example.com"})
	})

	resp, err := Get[testUser](context.Background(), c, "/users/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Name != "Alice" {
		t.Errorf("expected Alice, got %s", resp.Data.Name)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if c.Name() != "rest-test" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestPost(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		var user testUser
		_ = json.NewDecoder(r.Body).Decode(&user)
		user.Email = "bob@example.com"
		w.WriteHeader(201)
		_ = json.NewEncoder(w).Encode(user)
	})

	resp, err := Post[testUser](context.Background(), c, "/users", testUser{Name: "Bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
	if resp.Data.Name != "Bob" || resp.Data.Email != "bob@example.com" {
		t.Errorf("unexpected data %+v", resp.Data)
	}
}

func TestMethods(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(testUser{Name: r.Method})
	})
	ctx := context.Background()

	tests := []struct {
		method string
		call   func() (*Response[testUser], error)
	}{
		{http.MethodPut, func() (*Response[testUser], error) { return Put[testUser](ctx, c, "/u", testUser{}) }},
		{http.MethodPatch, func() (*Response[testUser], error) {
			return Patch[testUser](ctx, c, "/u", map[string]string{"name": "x"})
		}},
		{http.MethodDelete, func() (*Response[testUser], error) { return Delete[testUser](ctx, c, "/u") }},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp, err := tt.call()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Data.Name != tt.method {
				t.Errorf("server saw %s, want %s", resp.Data.Name, tt.method)
			}
		})
	}
}

func TestGet_WithQueryAndHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("expected limit=10, got %q", got)
		}
		if got := r.Header.Get("X-Request-ID"); got != "abc-123" {
			t.Errorf("expected X-Request-ID=abc-123, got %q", got)
		}
		_ = json.NewEncoder(w).Encode([]testUser{{Name: "Alice"}})
	})

	resp, err := Get[[]testUser](context.Background(), c, "/users",
		WithQuery(map[string]string{"page": "2"}),
		WithQuery(map[string]string{"limit": "10"}),
		WithHeader("X-Request-ID", "abc-123"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("expected 1 user, got %d", len(resp.Data))
	}
}

func TestEncodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	if _, err := Post[testUser](context.Background(), c, "/users", make(chan int)); err == nil {
		t.Fatal("expected encode error")
	}
}

func TestErrorResponse_StillDecodesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	})

	resp, err := Get[map[string]string](context.Background(), c, "/users/999")
	if !IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if resp == nil || resp.Data["error"] != "not found" {
		t.Errorf("expected decoded error body, got %+v", resp)
	}
}

func TestErrors_Delegation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/not-found":
			w.WriteHeader(404)
		case "/unauthorized":
			w.WriteHeader(401)
		default:
			w.WriteHeader(500)
		}
	})

	tests := []struct {
		path  string
		check func(error) bool
		name  string
	}{
		{"/not-found", IsNotFound, "IsNotFound"},
		{"/unauthorized", IsAuth, "IsAuth"},
		{"/server-error", IsServerError, "IsServerError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Get[map[string]string](context.Background(), c, tt.path)
			if !tt.check(err) {
				t.Errorf("%s(%v) = false, want true", tt.name, err)
			}
		})
	}
}
