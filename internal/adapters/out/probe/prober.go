// Package probe checks that partner pages are reachable and still link back.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blogjobs/internal/core/ports"
	"blogjobs/internal/pkg/errs"
)

const (
	userAgent = "Mozilla/5.0"

	DefaultTimeout = 10 * time.Second
	readChunkBytes = 32 << 10
)

type Config struct {
	// Domain must appear in the body of a healthy page.
	Domain string
	// Referer identifies this site to the partner.
	Referer string
	Timeout time.Duration
}

// HTTPProber implements ports.Prober over net/http.
type HTTPProber struct {
	client  *http.Client
	domain  []byte
	referer string
}

// NewHTTPProber requires a non-blank domain. A zero Timeout means DefaultTimeout.
func NewHTTPProber(cfg Config) (*HTTPProber, error) {
	domain := strings.TrimSpace(cfg.Domain)
	if domain == "" {
		return nil, errs.NewValueIsRequiredError("site domain")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProber{
		client:  &http.Client{Timeout: timeout},
		domain:  []byte(domain),
		referer: cfg.Referer,
	}, nil
}

// Probe never returns an error; every failure becomes an unavailable result.
func (p *HTTPProber) Probe(ctx context.Context, url string) ports.ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.ProbeResult{Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	if p.referer != "" {
		req.Header.Set("Referer", p.referer)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return ports.ProbeResult{Err: err}
	}
	defer resp.Body.Close()

	result := ports.ProbeResult{StatusCode: resp.StatusCode}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return result
	}

	found, err := containsStream(resp.Body, p.domain)
	if err != nil {
		result.Err = err
		return result
	}
	if !found {
		result.Err = fmt.Errorf("page does not mention %s", p.domain)
		return result
	}

	result.Available = true
	return result
}

// containsStream reads r in chunks until needle shows up or r is drained.
// The body size is unbounded; the client timeout bounds the read. The last
// len(needle)-1 bytes of each window are carried over so a match split
// across two reads is still found.
func containsStream(r io.Reader, needle []byte) (bool, error) {
	buf := make([]byte, readChunkBytes+len(needle))
	kept := 0
	for {
		n, err := r.Read(buf[kept:])
		if n > 0 {
			window := buf[:kept+n]
			if bytes.Contains(window, needle) {
				return true, nil
			}
			kept = min(len(needle)-1, len(window))
			copy(buf, window[len(window)-kept:])
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}
