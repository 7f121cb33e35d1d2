package action

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Dispatcher routes a named form post to its action.
type Dispatcher struct {
	actions map[string]Action
	names   []string
	logger  zerolog.Logger
}

// NewDispatcher registers actions in the given order. A later action with the same name wins.
func NewDispatcher(logger zerolog.Logger, actions ...Action) *Dispatcher {
	d := &Dispatcher{
		actions: make(map[string]Action, len(actions)),
		logger:  logger.With().Str("component", "actions").Logger(),
	}
	for _, a := range actions {
		if _, dup := d.actions[a.Name()]; !dup {
			d.names = append(d.names, a.Name())
		}
		d.actions[a.Name()] = a
	}
	return d
}

// Names lists the registered action names in registration order.
func (d *Dispatcher) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Dispatch runs the named action. ok is false when no action has that name, leaving the post to
// the host. An action error is folded into the returned status message.
func (d *Dispatcher) Dispatch(ctx context.Context, userID, name string, form Form) (msg string, ok bool) {
	a, found := d.actions[name]
	if !found {
		return "", false
	}

	msg, err := a.Handle(ctx, userID, form)
	if err != nil {
		d.logger.Warn().Err(err).Str("action", name).Str("stock_id", form.Get("stock_id")).Msg("action failed")
		return fmt.Sprintf("Error handling plugin action '%s': %s", name, err.Error()), true
	}

	d.logger.Info().Str("action", name).Str("status", msg).Msg("action handled")
	return msg, true
}
