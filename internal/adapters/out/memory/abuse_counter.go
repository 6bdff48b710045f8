// Package memory holds process-local state: the per-IP error counter and the
// page-view tracking buffer.
package memory

import "sync"

// AbuseCounter counts request errors per client IP. It is safe for concurrent use.
// A counter starts empty, so a fresh process starts with no blocked IPs.
type AbuseCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewAbuseCounter() *AbuseCounter {
	return &AbuseCounter{counts: make(map[string]int64)}
}

func (c *AbuseCounter) Increment(ip string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[ip]++
	return c.counts[ip]
}

func (c *AbuseCounter) Count(ip string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[ip]
}

// Prune drops every IP whose count is below threshold.
func (c *AbuseCounter) Prune(threshold int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	pruned := 0
	for ip, n := range c.counts {
		if n < threshold {
			delete(c.counts, ip)
			pruned++
		}
	}
	return pruned
}

func (c *AbuseCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.counts)
}
