package commands

import (
	"context"
	"fmt"

	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/core/ports"
)

// LoginNoticeConfig names who is told about logins.
type LoginNoticeConfig struct {
	SiteTitle  string
	AdminEmail string
}

// LoginRecordCommandHandler resolves the login IP, stores a login record on
// the user and mails a notice to the administrator. Logins from an address
// that cannot be resolved are skipped.
type LoginRecordCommandHandler struct {
	users    ports.UserRepository
	resolver ports.GeoResolver
	renderer ports.NotificationRenderer
	mail     ports.MailSender
	clock    kernel.Clock
	cfg      LoginNoticeConfig
}

func NewLoginRecordCommandHandler(
	users ports.UserRepository,
	resolver ports.GeoResolver,
	renderer ports.NotificationRenderer,
	mail ports.MailSender,
	clock kernel.Clock,
	cfg LoginNoticeConfig,
) LoginRecordCommandHandler {
	return LoginRecordCommandHandler{
		users:    users,
		resolver: resolver,
		renderer: renderer,
		mail:     mail,
		clock:    clock,
		cfg:      cfg,
	}
}

// Handle reports whether a record was stored.
func (h *LoginRecordCommandHandler) Handle(ctx context.Context, cmd LoginRecordCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	address, err := h.resolver.Resolve(ctx, cmd.IP)
	if err != nil || address.IsZero() {
		return false, nil
	}

	record := visitor.LoginRecord{
		IP:            cmd.IP,
		LoginType:     cmd.LoginType,
		LoginTime:     h.clock.Now(),
		PhysicAddress: address.Formatted,
		Province:      address.Province,
	}
	if err = h.users.AddLoginRecord(ctx, cmd.Username, record); err != nil {
		return false, fmt.Errorf("add login record for %s: %w", cmd.Username, err)
	}

	if h.cfg.AdminEmail == "" {
		return true, nil
	}

	body, err := h.renderer.RenderLoginNotice(ports.LoginView{
		Username: cmd.Username,
		Time:     record.LoginTime,
		IP:       record.IP,
		Address:  record.PhysicAddress,
	})
	if err != nil {
		return true, fmt.Errorf("render login notice: %w", err)
	}
	subject := h.cfg.SiteTitle + " login notice: " + cmd.Username
	if err = h.mail.Send(ctx, subject, body, h.cfg.AdminEmail); err != nil {
		return true, fmt.Errorf("mail login notice: %w", err)
	}
	return true, nil
}
