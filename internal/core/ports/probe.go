package ports

import "context"

// ProbeResult is the binary availability of an external URL.
type ProbeResult struct {
	Available  bool
	StatusCode int
	// Err explains an unavailable result; nil when Available.
	Err error
}

// Prober checks an external URL with a bounded timeout. It never returns an
// error: every failure is folded into an unavailable result.
type Prober interface {
	Probe(ctx context.Context, url string) ProbeResult
}
