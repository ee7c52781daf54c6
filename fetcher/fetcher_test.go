package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("probe used %s, want HEAD", r.Method)
		}
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
	}))
	defer srv.Close()

	c := New(Options{TimeoutSeconds: 5})
	res, err := c.Probe(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", res.StatusCode)
	}
	if res.ContentType != "text/html" {
		t.Errorf("ContentType = %q, want parameters stripped", res.ContentType)
	}
	if res.TimedOut {
		t.Error("TimedOut should be false")
	}
}

func TestProbeTimeoutIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Options{TimeoutSeconds: 5})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := c.Probe(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("a timed-out probe must not error: %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut should be true")
	}
}

func TestProbeConnectionRefused(t *testing.T) {
	c := New(Options{TimeoutSeconds: 1})
	if _, err := c.Probe(context.Background(), "http://127.0.0.1:1/", nil); err == nil {
		t.Error("expected an error for a refused connection")
	}
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Custom"); got != "yes" {
			t.Errorf("X-Custom = %q", got)
		}
		if got := r.Header.Get("User-Agent"); !strings.Contains(got, "Mozilla") {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>ok</title></head></html>"))
	}))
	defer srv.Close()

	c := New(Options{TimeoutSeconds: 5})
	page, err := c.Get(context.Background(), srv.URL, map[string]string{"X-Custom": "yes"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.Contains(page.Body, "<title>ok</title>") {
		t.Errorf("Body = %q", page.Body)
	}
	if page.ContentType != "text/html" {
		t.Errorf("ContentType = %q", page.ContentType)
	}
	if page.FinalURL == "" {
		t.Error("FinalURL should be set")
	}
}

func TestGetFollowsRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/final", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := New(Options{TimeoutSeconds: 5})
	page, err := c.Get(context.Background(), srv.URL+"/start", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.HasSuffix(page.FinalURL, "/final") {
		t.Errorf("FinalURL = %q", page.FinalURL)
	}
}

func TestGetNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	c := New(Options{TimeoutSeconds: 5})
	if _, err := c.Get(context.Background(), srv.URL, nil); err == nil {
		t.Error("expected an error for status 410")
	}
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"text/html; charset=utf-8", "text/html"},
		{"TEXT/HTML", "text/html"},
		{" application/pdf ", "application/pdf"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := mediaType(tt.in); got != tt.want {
			t.Errorf("mediaType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
