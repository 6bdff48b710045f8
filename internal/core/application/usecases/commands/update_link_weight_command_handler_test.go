package commands_test

import (
	"testing"

	"blogjobs/internal/core/application/usecases/commands"
	"blogjobs/internal/core/domain/model/link"
	"blogjobs/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateLinkWeightCommand(t *testing.T) {
	tests := []struct {
		name     string
		referrer string
		wantHost string
		wantErr  error
	}{
		{name: "full url", referrer: "https://foo.example.com/page?x=1", wantHost: "foo.example.com"},
		{name: "with port", referrer: "http://foo.example.com:8080/", wantHost: "foo.example.com"},
		{name: "empty", referrer: " ", wantErr: errs.ErrValueIsRequired},
		{name: "no host", referrer: "/relative/path", wantErr: errs.ErrValueIsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewUpdateLinkWeightCommand(tt.referrer)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, cmd.Host())
		})
	}
}

func TestUpdateLinkWeightCommandHandler_Handle_IncrementsEveryMatch(t *testing.T) {
	ctx := t.Context()
	matchA, err := link.RestoreLink(1, "a", "https://foo.example.com/", false, link.Available, 3)
	require.NoError(t, err)
	matchB, err := link.RestoreLink(2, "b", "http://FOO.example.com/blog", false, link.Available, 0)
	require.NoError(t, err)
	other, err := link.RestoreLink(3, "c", "https://bar.example.com/", false, link.Available, 8)
	require.NoError(t, err)

	repo := new(LinkRepo)
	uow := new(LinkUnitOfWork)
	factory := new(LinkUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LinkRepository").Return(repo).Once(),
		repo.On("FindByHost", ctx, "foo.example.com").Return([]*link.Link{matchA, matchB}, nil).Once(),
		repo.On("IncrementWeight", ctx, matchA).Return(nil).Once(),
		repo.On("IncrementWeight", ctx, matchB).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewUpdateLinkWeightCommand("https://foo.example.com/page")
	require.NoError(t, err)
	handler := commands.NewUpdateLinkWeightCommandHandler(factory)

	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, int64(4), matchA.Weight())
	assert.Equal(t, int64(1), matchB.Weight())
	assert.Equal(t, int64(8), other.Weight())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestUpdateLinkWeightCommandHandler_Handle_NoMatchDoesNotCommit(t *testing.T) {
	ctx := t.Context()
	repo := new(LinkRepo)
	uow := new(LinkUnitOfWork)
	factory := new(LinkUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("LinkRepository").Return(repo).Once()
	repo.On("FindByHost", ctx, "nobody.example.com").Return([]*link.Link{}, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cmd, err := commands.NewUpdateLinkWeightCommand("https://nobody.example.com/")
	require.NoError(t, err)
	handler := commands.NewUpdateLinkWeightCommandHandler(factory)

	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, updated)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
