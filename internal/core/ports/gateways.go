package ports

import (
	"context"
	"time"

	"blogjobs/internal/core/domain/model/subscriber"
	"blogjobs/internal/core/domain/model/visitor"
)

// SubscriberRepository reads broadcast audiences.
type SubscriberRepository interface {
	// GetBroadcastRecipients returns subscribed broadcast subscribers.
	GetBroadcastRecipients(ctx context.Context) ([]subscriber.Subscriber, error)
}

// UserRepository records logins against user accounts.
type UserRepository interface {
	// AddLoginRecord returns errs.ObjectNotFoundError for an unknown username.
	AddLoginRecord(ctx context.Context, username string, record visitor.LoginRecord) error
}

// SearchIndex is the full-text index over platform collections.
type SearchIndex interface {
	// Rebuild re-indexes every row of the named collections.
	Rebuild(ctx context.Context, collections []string) error

	// Delete drops index entries for the given posts.
	Delete(ctx context.Context, postIDs []int64) error
}

// SearchLog is the history of visitor search queries.
type SearchLog interface {
	// DeleteBefore removes rows older than t and reports how many went away.
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)

	// GetRanks returns the most searched keywords since t, most popular first.
	GetRanks(ctx context.Context, since time.Time, limit int) ([]visitor.SearchRank, error)
}

// GeoResolver turns an IP into a human readable address.
type GeoResolver interface {
	Name() string
	Resolve(ctx context.Context, ip string) (visitor.Address, error)
}

// MailSender delivers one HTML message.
type MailSender interface {
	Send(ctx context.Context, subject, htmlBody, recipient string) error
}

// KeyValueStore holds counters, cached values and bounded lists.
type KeyValueStore interface {
	IncrementCounter(ctx context.Context, name string) (int64, error)
	Set(ctx context.Context, key string, value any) error
	Push(ctx context.Context, listKey string, value any) error
}

// AbuseCounter counts request errors per client IP.
type AbuseCounter interface {
	Increment(ip string) int64
	Count(ip string) int64
	// Prune drops entries whose count is below threshold and returns how many were dropped.
	Prune(threshold int64) int
	Len() int
}

// TrackingBuffer accumulates page-view records in memory until flushed.
type TrackingBuffer interface {
	Add(entry visitor.TrackingEntry)
	Flush(ctx context.Context) (int, error)
}
