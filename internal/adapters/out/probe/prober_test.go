package probe_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"blogjobs/internal/adapters/out/probe"
	"blogjobs/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProber(t *testing.T, timeout time.Duration) *probe.HTTPProber {
	t.Helper()
	p, err := probe.NewHTTPProber(probe.Config{
		Domain:  "blog.example.com",
		Referer: "https://blog.example.com/",
		Timeout: timeout,
	})
	require.NoError(t, err)
	return p
}

func TestHTTPProber_Probe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a href="https://blog.example.com">friend</a>`))
	})
	mux.HandleFunc("/parked", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`this domain is for sale`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blog.example.com is down", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := newProber(t, time.Second)

	testCases := []struct {
		name      string
		path      string
		available bool
		status    int
	}{
		{name: "success with domain", path: "/ok", available: true, status: http.StatusOK},
		{name: "success without domain", path: "/parked", available: false, status: http.StatusOK},
		{name: "server error", path: "/broken", available: false, status: http.StatusInternalServerError},
		{name: "not found", path: "/missing", available: false, status: http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := p.Probe(context.Background(), srv.URL+tc.path)
			assert.Equal(t, tc.available, result.Available)
			assert.Equal(t, tc.status, result.StatusCode)
			if tc.available {
				assert.NoError(t, result.Err)
			} else {
				assert.Error(t, result.Err)
			}
		})
	}
}

func TestHTTPProber_ScansWholeBody(t *testing.T) {
	filler := bytes.Repeat([]byte("x"), 3<<20)
	mux := http.NewServeMux()
	mux.HandleFunc("/long", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(filler)
		_, _ = w.Write([]byte(`<footer><a href="https://blog.example.com">friend</a></footer>`))
	})
	mux.HandleFunc("/split", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(filler[:32<<10-4])
		_, _ = w.Write([]byte("blog.exa"))
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte("mple.com"))
	})
	mux.HandleFunc("/long-parked", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(filler)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := newProber(t, 5*time.Second)

	assert.True(t, p.Probe(context.Background(), srv.URL+"/long").Available, "domain after 3 MiB")
	assert.True(t, p.Probe(context.Background(), srv.URL+"/split").Available, "domain split across writes")
	result := p.Probe(context.Background(), srv.URL+"/long-parked")
	assert.False(t, result.Available)
	assert.Error(t, result.Err)
}

func TestHTTPProber_SendsIdentifyingHeaders(t *testing.T) {
	var ua, referer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		referer = r.Header.Get("Referer")
		_, _ = w.Write([]byte("blog.example.com"))
	}))
	defer srv.Close()

	result := newProber(t, time.Second).Probe(context.Background(), srv.URL)

	require.True(t, result.Available)
	assert.Equal(t, "Mozilla/5.0", ua)
	assert.Equal(t, "https://blog.example.com/", referer)
}

func TestHTTPProber_TimeoutDoesNotBlockOtherProbes(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/hang", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("blog.example.com"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	defer close(release)

	p := newProber(t, 200*time.Millisecond)

	var wg sync.WaitGroup
	var hung, ok bool
	var hungErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		r := p.Probe(context.Background(), srv.URL+"/hang")
		hung, hungErr = r.Available, r.Err
	}()
	go func() {
		defer wg.Done()
		ok = p.Probe(context.Background(), srv.URL+"/ok").Available
	}()
	wg.Wait()

	assert.False(t, hung)
	assert.Error(t, hungErr)
	assert.True(t, ok)
}

func TestHTTPProber_InvalidURL(t *testing.T) {
	result := newProber(t, time.Second).Probe(context.Background(), "://nope")
	assert.False(t, result.Available)
	assert.Error(t, result.Err)
}

func TestNewHTTPProber_RequiresDomain(t *testing.T) {
	_, err := probe.NewHTTPProber(probe.Config{Domain: " "})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
