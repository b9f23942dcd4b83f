package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoJSON_RoundTripAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, RatePerSec: 100})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var out map[string]string
	err = c.DoJSON(context.Background(), http.MethodPost, "hooks", map[string]string{"X-API-Key": "secret"}, map[string]string{"msg": "hi"}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if out["echo"] != "hi" {
		t.Fatalf("unexpected response %v", out)
	}
}

func TestDoJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := New(Options{})
	err := c.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if herr.StatusCode != http.StatusServiceUnavailable || !herr.Retryable() || herr.Body != "busy" {
		t.Fatalf("unexpected error: %+v", herr)
	}
}

func TestDoJSON_RelativeWithoutBase(t *testing.T) {
	c, _ := New(Options{})
	if err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil); err == nil {
		t.Fatalf("expected error for relative url without base")
	}
	if _, err := New(Options{BaseURL: "::bad"}); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}

func TestDoJSON_RateLimitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c, _ := New(Options{RatePerSec: 0.001, Burst: 1})
	ctx := context.Background()
	if err := c.DoJSON(ctx, http.MethodGet, srv.URL, nil, nil, nil); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := c.DoJSON(cctx, http.MethodGet, srv.URL, nil, nil, nil); err == nil {
		t.Fatalf("expected rate limit wait to fail on canceled context")
	}
}
