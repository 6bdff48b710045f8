package commands_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"blogjobs/internal/core/application/usecases/commands"
	"blogjobs/internal/core/domain/model/link"
	"blogjobs/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedLink struct {
	url    string
	status link.Status
	weight int64
}

// linkTable keeps rows the way the postgres adapter does: every read builds
// fresh aggregates and every write touches only its own column.
type linkTable struct {
	mu   sync.Mutex
	rows map[int64]*storedLink
}

func (t *linkTable) load(id int64) *link.Link {
	r := t.rows[id]
	l, _ := link.RestoreLink(id, "link", r.url, false, r.status, r.weight)
	return l
}

func (t *linkTable) GetAllCheckable(context.Context) ([]*link.Link, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	links := make([]*link.Link, 0, len(t.rows))
	for id := range t.rows {
		links = append(links, t.load(id))
	}
	return links, nil
}

func (t *linkTable) FindByHost(_ context.Context, host string) ([]*link.Link, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var links []*link.Link
	for id, r := range t.rows {
		if strings.Contains(strings.ToLower(r.url), strings.ToLower(host)) {
			links = append(links, t.load(id))
		}
	}
	return links, nil
}

func (t *linkTable) UpdateStatus(_ context.Context, l *link.Link) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[l.ID()].status = l.Status()
	return nil
}

func (t *linkTable) IncrementWeight(_ context.Context, l *link.Link) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[l.ID()].weight++
	return nil
}

type linkTableUoW struct{ table *linkTable }

func (linkTableUoW) Begin(context.Context) error { return nil }
func (linkTableUoW) Commit(context.Context) error { return nil }
func (linkTableUoW) Rollback(context.Context) error { return nil }
func (u linkTableUoW) LinkRepository() ports.LinkRepository { return u.table }
func (u linkTableUoW) Create() commands.LinkUoW { return u }

func TestCheckLinks_KeepsWeightIncrementedDuringProbe(t *testing.T) {
	ctx := t.Context()
	table := &linkTable{rows: map[int64]*storedLink{
		1: {url: "https://foo.example.com/", status: link.Pending},
	}}
	factory := linkTableUoW{table: table}

	weightHandler := commands.NewUpdateLinkWeightCommandHandler(factory)
	referrer, err := commands.NewUpdateLinkWeightCommand("https://foo.example.com/page")
	require.NoError(t, err)

	prober := ProberFunc(func(ctx context.Context, _ string) ports.ProbeResult {
		updated, err := weightHandler.Handle(ctx, referrer)
		assert.NoError(t, err)
		assert.Equal(t, 1, updated)
		return ports.ProbeResult{Available: true}
	})
	checkHandler, err := commands.NewCheckLinksCommandHandler(factory, prober, 1)
	require.NoError(t, err)

	_, err = checkHandler.Handle(ctx, commands.NewCheckLinksCommand())

	require.NoError(t, err)
	assert.Equal(t, link.Available, table.rows[1].status)
	assert.Equal(t, int64(1), table.rows[1].weight)
}
