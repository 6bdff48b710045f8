package commands_test

import (
	"context"
	"net/url"
	"time"

	"blogjobs/internal/core/application/usecases/commands"
	"blogjobs/internal/core/domain/model/job"
	"blogjobs/internal/core/domain/model/link"
	"blogjobs/internal/core/domain/model/post"
	"blogjobs/internal/core/domain/model/subscriber"
	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type PostRepo struct{ mock.Mock }

func (m *PostRepo) Get(ctx context.Context, id int64) (*post.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*post.Post), args.Error(1)
}

func (m *PostRepo) GetForUpdate(ctx context.Context, id int64) (*post.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*post.Post), args.Error(1)
}

func (m *PostRepo) Add(ctx context.Context, p *post.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PostRepo) Update(ctx context.Context, p *post.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PostRepo) ListIDsNotPublished(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type LinkRepo struct{ mock.Mock }

func (m *LinkRepo) GetAllCheckable(ctx context.Context) ([]*link.Link, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*link.Link), args.Error(1)
}

func (m *LinkRepo) FindByHost(ctx context.Context, host string) ([]*link.Link, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*link.Link), args.Error(1)
}

func (m *LinkRepo) UpdateStatus(ctx context.Context, l *link.Link) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *LinkRepo) IncrementWeight(ctx context.Context, l *link.Link) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

type TxMock struct{ mock.Mock }

func (m *TxMock) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *TxMock) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *TxMock) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type PostUnitOfWork struct{ TxMock }

func (m *PostUnitOfWork) PostRepository() ports.PostRepository {
	args := m.Called()
	return args.Get(0).(ports.PostRepository)
}

type PostUoWFactory struct{ mock.Mock }

func (m *PostUoWFactory) Create() commands.PostUoW {
	args := m.Called()
	return args.Get(0).(commands.PostUoW)
}

type LinkUnitOfWork struct{ TxMock }

func (m *LinkUnitOfWork) LinkRepository() ports.LinkRepository {
	args := m.Called()
	return args.Get(0).(ports.LinkRepository)
}

type LinkUoWFactory struct{ mock.Mock }

func (m *LinkUoWFactory) Create() commands.LinkUoW {
	args := m.Called()
	return args.Get(0).(commands.LinkUoW)
}

type KVStore struct{ mock.Mock }

func (m *KVStore) IncrementCounter(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *KVStore) Set(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *KVStore) Push(ctx context.Context, listKey string, value any) error {
	args := m.Called(ctx, listKey, value)
	return args.Error(0)
}

type Resolver struct{ mock.Mock }

func (m *Resolver) Name() string {
	return "mock"
}

func (m *Resolver) Resolve(ctx context.Context, ip string) (visitor.Address, error) {
	args := m.Called(ctx, ip)
	return args.Get(0).(visitor.Address), args.Error(1)
}

type Abuse struct{ mock.Mock }

func (m *Abuse) Increment(ip string) int64 {
	args := m.Called(ip)
	return args.Get(0).(int64)
}

func (m *Abuse) Count(ip string) int64 {
	args := m.Called(ip)
	return args.Get(0).(int64)
}

func (m *Abuse) Prune(threshold int64) int {
	args := m.Called(threshold)
	return args.Int(0)
}

func (m *Abuse) Len() int {
	args := m.Called()
	return args.Int(0)
}

type Tracking struct{ mock.Mock }

func (m *Tracking) Add(entry visitor.TrackingEntry) {
	m.Called(entry)
}

func (m *Tracking) Flush(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type SearchLog struct{ mock.Mock }

func (m *SearchLog) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SearchLog) GetRanks(ctx context.Context, since time.Time, limit int) ([]visitor.SearchRank, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]visitor.SearchRank), args.Error(1)
}

type SearchIndex struct{ mock.Mock }

func (m *SearchIndex) Rebuild(ctx context.Context, collections []string) error {
	args := m.Called(ctx, collections)
	return args.Error(0)
}

func (m *SearchIndex) Delete(ctx context.Context, postIDs []int64) error {
	args := m.Called(ctx, postIDs)
	return args.Error(0)
}

type Subscribers struct{ mock.Mock }

func (m *Subscribers) GetBroadcastRecipients(ctx context.Context) ([]subscriber.Subscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscriber.Subscriber), args.Error(1)
}

type Users struct{ mock.Mock }

func (m *Users) AddLoginRecord(ctx context.Context, username string, record visitor.LoginRecord) error {
	args := m.Called(ctx, username, record)
	return args.Error(0)
}

type Renderer struct{ mock.Mock }

func (m *Renderer) RenderBroadcast(view ports.BroadcastView) (string, error) {
	args := m.Called(view)
	return args.String(0), args.Error(1)
}

func (m *Renderer) RenderLoginNotice(view ports.LoginView) (string, error) {
	args := m.Called(view)
	return args.String(0), args.Error(1)
}

type Mailer struct{ mock.Mock }

func (m *Mailer) Send(ctx context.Context, subject, htmlBody, recipient string) error {
	args := m.Called(ctx, subject, htmlBody, recipient)
	return args.Error(0)
}

type Scheduler struct{ mock.Mock }

func (m *Scheduler) Enqueue(ctx context.Context, name job.Name, payload any) (job.Handle, error) {
	args := m.Called(ctx, name, payload)
	return args.Get(0).(job.Handle), args.Error(1)
}

func (m *Scheduler) ScheduleAt(ctx context.Context, name job.Name, payload any, when time.Time) (job.Handle, error) {
	args := m.Called(ctx, name, payload, when)
	return args.Get(0).(job.Handle), args.Error(1)
}

type ProberFunc func(ctx context.Context, url string) ports.ProbeResult

func (f ProberFunc) Probe(ctx context.Context, url string) ports.ProbeResult {
	return f(ctx, url)
}

func mustURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}
