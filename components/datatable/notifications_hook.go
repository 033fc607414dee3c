package datatable

import (
	"context"
	"errors"
	"slices"
)

// NotificationsClient defines the minimal interface needed from go-notifications (or similar).
type NotificationsClient interface {
	PublishTableEvent(ctx context.Context, channel string, event TableEvent) error
}

// NotificationsHook forwards table events to an external notifications client.
// Only the reasons listed in Reasons are forwarded; an empty list forwards row
// mutations.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
	Reasons []string
}

// TableUpdated publishes events to the configured notifications client.
func (h *NotificationsHook) TableUpdated(ctx context.Context, event TableEvent) error {
	if h == nil || h.Client == nil || !h.forwards(event.Reason) {
		return nil
	}
	return h.Client.PublishTableEvent(ctx, h.Channel, event)
}

func (h *NotificationsHook) forwards(reason string) bool {
	if len(h.Reasons) == 0 {
		return rowMutations[reason]
	}
	return slices.Contains(h.Reasons, reason)
}

// MultiHook delivers events to every hook and joins their errors.
type MultiHook []RefreshHook

// TableUpdated implements RefreshHook.
func (m MultiHook) TableUpdated(ctx context.Context, event TableEvent) error {
	var errs []error
	for _, hook := range m {
		if hook == nil {
			continue
		}
		if err := hook.TableUpdated(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
