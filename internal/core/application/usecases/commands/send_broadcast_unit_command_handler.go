package commands

import (
	"context"
	"fmt"

	"blogjobs/internal/core/ports"
)

type SendBroadcastUnitCommandHandler struct {
	mail ports.MailSender
}

func NewSendBroadcastUnitCommandHandler(mail ports.MailSender) SendBroadcastUnitCommandHandler {
	return SendBroadcastUnitCommandHandler{mail: mail}
}

func (h *SendBroadcastUnitCommandHandler) Handle(ctx context.Context, cmd SendBroadcastUnitCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	u := cmd.Unit
	if err := h.mail.Send(ctx, u.Subject, u.HTMLBody, u.Recipient); err != nil {
		return fmt.Errorf("send broadcast unit %s to %s: %w", u.ID, u.Recipient, err)
	}
	return nil
}
