package memory

import (
	"context"
	"errors"
	"sync"

	"blogjobs/internal/core/domain/model/visitor"
)

type listPusher interface {
	Push(ctx context.Context, listKey string, value any) error
}

// TrackingBuffer collects page views until Flush moves them to the kv store.
type TrackingBuffer struct {
	mu      sync.Mutex
	entries []visitor.TrackingEntry
	sink    listPusher
	listKey string
}

// NewTrackingBuffer flushes into the kv list named listKey.
func NewTrackingBuffer(sink listPusher, listKey string) *TrackingBuffer {
	return &TrackingBuffer{sink: sink, listKey: listKey}
}

func (b *TrackingBuffer) Add(entry visitor.TrackingEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, entry)
}

func (b *TrackingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Flush pushes buffered entries in arrival order. Entries that could not be
// pushed are put back in front of anything added meanwhile.
func (b *TrackingBuffer) Flush(ctx context.Context) (int, error) {
	b.mu.Lock()
	pending := b.entries
	b.entries = nil
	b.mu.Unlock()

	for i, e := range pending {
		if err := b.sink.Push(ctx, b.listKey, e); err != nil {
			b.requeue(pending[i:])
			return i, errors.Join(errors.New("tracking flush interrupted"), err)
		}
	}
	return len(pending), nil
}

func (b *TrackingBuffer) requeue(rest []visitor.TrackingEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(append(make([]visitor.TrackingEntry, 0, len(rest)+len(b.entries)), rest...), b.entries...)
}
