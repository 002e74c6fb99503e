package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	srv := httptest.NewServer(authMiddleware("sekrit", okHandler()))
	defer srv.Close()

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "missing_key", path: "/runs", header: "", want: http.StatusUnauthorized},
		{name: "wrong_key", path: "/runs", header: "Bearer wrong", want: http.StatusUnauthorized},
		{name: "wrong_scheme", path: "/runs", header: "Basic sekrit", want: http.StatusUnauthorized},
		{name: "valid_key", path: "/runs", header: "Bearer sekrit", want: http.StatusOK},
		{name: "health_is_open", path: "/health", header: "", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			if err != nil {
				t.Fatalf("building request: %v", err)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAuthMiddlewareDisabled(t *testing.T) {
	srv := httptest.NewServer(authMiddleware("", okHandler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/runs")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d with auth disabled", resp.StatusCode, http.StatusOK)
	}
}

func TestCORSMiddleware(t *testing.T) {
	srv := httptest.NewServer(corsMiddleware([]string{"https://viewer.example"}, okHandler()))
	defer srv.Close()

	get := func(method, origin string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(method, srv.URL+"/runs", nil)
		if err != nil {
			t.Fatalf("building request: %v", err)
		}
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		return resp
	}

	resp := get(http.MethodGet, "https://viewer.example")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://viewer.example" {
		t.Errorf("Allow-Origin = %q, want the request origin", got)
	}

	resp = get(http.MethodGet, "https://evil.example")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q for an unknown origin, want none", got)
	}

	resp = get(http.MethodOptions, "https://viewer.example")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
}

func TestCORSMiddlewareWildcard(t *testing.T) {
	srv := httptest.NewServer(corsMiddleware([]string{"*"}, okHandler()))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/runs", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Origin", "https://anywhere.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://anywhere.example" {
		t.Errorf("Allow-Origin = %q, want the request origin under wildcard", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	srv := httptest.NewServer(recoveryMiddleware(panicky))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}
}

func TestLogMiddlewareSetsRequestID(t *testing.T) {
	srv := httptest.NewServer(logMiddleware(okHandler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header not set")
	}
}
