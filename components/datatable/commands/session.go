package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// SessionInput opens a session for a viewer, or closes SessionID when Close is set.
type SessionInput struct {
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Locale    string `json:"locale,omitempty"`
	Close     bool   `json:"close,omitempty"`
	// Result receives the id of an opened session.
	Result *string `json:"-"`
}

type sessionService interface {
	OpenSession(ctx context.Context, viewer datatable.ViewerContext) (*datatable.Session, error)
	CloseSession(ctx context.Context, sessionID string) error
}

// SessionCommand wraps Service.OpenSession and Service.CloseSession.
type SessionCommand struct {
	service   sessionService
	telemetry Telemetry
}

// NewSessionCommand builds the command.
func NewSessionCommand(service sessionService, telemetry Telemetry) *SessionCommand {
	return &SessionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SessionInput] = (*SessionCommand)(nil)

// Execute opens or closes the session.
func (c *SessionCommand) Execute(ctx context.Context, msg SessionInput) error {
	if c.service == nil {
		return errors.New("session command requires service")
	}
	if msg.Close {
		if err := c.service.CloseSession(ctx, msg.SessionID); err != nil {
			return err
		}
		c.telemetry.Record(ctx, "datatable.command.session_close", map[string]any{"session_id": msg.SessionID})
		return nil
	}
	session, err := c.service.OpenSession(ctx, datatable.ViewerContext{
		SessionID: msg.SessionID,
		UserID:    msg.UserID,
		Locale:    msg.Locale,
	})
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = session.ID
	}
	c.telemetry.Record(ctx, "datatable.command.session_open", map[string]any{
		"session_id": session.ID,
		"user_id":    msg.UserID,
	})
	return nil
}
