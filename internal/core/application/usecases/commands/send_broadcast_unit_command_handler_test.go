package commands_test

import (
	"errors"
	"testing"
	"time"

	"blogjobs/internal/core/application/usecases/commands"
	"blogjobs/internal/core/domain/model/broadcast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendBroadcastUnitCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	unit, err := broadcast.NewUnit(1, "a@example.com", "New post", "<p>hi</p>", time.Now())
	require.NoError(t, err)
	cmd, err := commands.NewSendBroadcastUnitCommand(unit)
	require.NoError(t, err)

	mailer := new(Mailer)
	mailer.On("Send", ctx, "New post", "<p>hi</p>", "a@example.com").Return(nil).Once()

	handler := commands.NewSendBroadcastUnitCommandHandler(mailer)
	require.NoError(t, handler.Handle(ctx, cmd))
	mailer.AssertExpectations(t)
}

func TestSendBroadcastUnitCommandHandler_Handle_SendError(t *testing.T) {
	ctx := t.Context()
	unit, err := broadcast.NewUnit(1, "a@example.com", "New post", "<p>hi</p>", time.Now())
	require.NoError(t, err)
	cmd, err := commands.NewSendBroadcastUnitCommand(unit)
	require.NoError(t, err)

	mailer := new(Mailer)
	mailer.On("Send", ctx, "New post", "<p>hi</p>", "a@example.com").Return(errors.New("421 try later")).Once()

	handler := commands.NewSendBroadcastUnitCommandHandler(mailer)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "421 try later")
}

func TestNewSendBroadcastUnitCommand_RejectsInvalidUnit(t *testing.T) {
	_, err := commands.NewSendBroadcastUnitCommand(broadcast.Unit{Recipient: "a@example.com"})
	require.Error(t, err)
}
