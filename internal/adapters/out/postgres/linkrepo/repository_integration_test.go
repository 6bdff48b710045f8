package linkrepo_test

import (
	"context"
	"sync"
	"testing"

	"blogjobs/internal/adapters/out/postgres/linkrepo"
	"blogjobs/internal/adapters/out/postgres/pgtest"
	"blogjobs/internal/core/domain/model/link"
	"blogjobs/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(key string, aggregate any) {
	m.Called(key, aggregate)
}

type LinkRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *linkrepo.GormLinkRepository
	tracker    *MockAggregateTracker
}

func (suite *LinkRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *LinkRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Reset())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.repository = linkrepo.NewGormLinkRepository(suite.pg.DB, suite.tracker)
}

func (suite *LinkRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *LinkRepositoryIntegrationTestSuite) seed(id int64, rawURL string, excluded bool) *link.Link {
	l, err := link.RestoreLink(id, "link", rawURL, excluded, link.Pending, 0)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), l))
	return l
}

func (suite *LinkRepositoryIntegrationTestSuite) TestGetAllCheckable_SkipsExcluded() {
	suite.seed(1, "https://a.example.com", false)
	suite.seed(2, "https://b.example.com", true)
	suite.seed(3, "https://c.example.com", false)

	links, err := suite.repository.GetAllCheckable(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(links, 2)
	suite.Equal(int64(1), links[0].ID())
	suite.Equal(int64(3), links[1].ID())
}

func (suite *LinkRepositoryIntegrationTestSuite) TestFindByHost() {
	suite.seed(1, "https://Friend.example.com/links", false)
	suite.seed(2, "https://other.example.org", false)
	suite.seed(3, "https://friend.example.com/about", true)
	suite.seed(4, "https://friendXexample.com", false)

	testCases := []struct {
		name string
		host string
		want []int64
	}{
		{name: "case insensitive and includes excluded", host: "friend.example.com", want: []int64{1, 3}},
		{name: "no match", host: "nobody.example.net", want: []int64{}},
		{name: "like wildcards are literal", host: "friend_example", want: []int64{}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			links, err := suite.repository.FindByHost(context.Background(), tc.host)
			suite.Require().NoError(err)

			ids := make([]int64, 0, len(links))
			for _, l := range links {
				ids = append(ids, l.ID())
			}
			suite.Equal(tc.want, ids)
		})
	}
}

func (suite *LinkRepositoryIntegrationTestSuite) TestFindByHost_EmptyHost() {
	_, err := suite.repository.FindByHost(context.Background(), "  ")
	suite.ErrorIs(err, errs.ErrValueIsRequired)
}

func (suite *LinkRepositoryIntegrationTestSuite) TestUpdateStatus_KeepsWeightIncrementedMeanwhile() {
	ctx := context.Background()
	suite.seed(1, "https://a.example.com", false)

	loaded, err := suite.repository.GetAllCheckable(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(loaded, 1)
	stale := loaded[0]

	suite.Require().NoError(suite.repository.IncrementWeight(ctx, stale))
	suite.Require().NoError(suite.repository.IncrementWeight(ctx, stale))

	stale.ApplyProbe(false)
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, stale))

	links, err := suite.repository.GetAllCheckable(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(links, 1)
	suite.Equal(link.Unavailable, links[0].Status())
	suite.Equal(int64(2), links[0].Weight())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", "link:1", stale)
}

func (suite *LinkRepositoryIntegrationTestSuite) TestIncrementWeight_ConcurrentIncrementsAreNotLost() {
	ctx := context.Background()
	l := suite.seed(1, "https://a.example.com", false)

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- suite.repository.IncrementWeight(ctx, l)
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		suite.Require().NoError(err)
	}

	links, err := suite.repository.GetAllCheckable(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(workers), links[0].Weight())
}

func (suite *LinkRepositoryIntegrationTestSuite) TestWrites_Missing_ReturnNotFound() {
	l, err := link.NewLink(99, "ghost", "https://ghost.example.com")
	suite.Require().NoError(err)

	suite.ErrorIs(suite.repository.UpdateStatus(context.Background(), l), errs.ErrObjectNotFound)
	suite.ErrorIs(suite.repository.IncrementWeight(context.Background(), l), errs.ErrObjectNotFound)
}

func TestLinkRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LinkRepositoryIntegrationTestSuite))
}
