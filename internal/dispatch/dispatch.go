// Package dispatch routes suggested actions to their consumer. The UI that
// renders action buttons is external; it either supplies its own callback
// or relies on the default navigate/copy behavior behind the Navigator and
// Clipboard seams.
package dispatch

import (
	"fmt"

	"github.com/pipedesk/assist/internal/enhance"
	"github.com/pipedesk/assist/internal/log"
)

// Navigator performs a location change, e.g. a browser redirect or a
// deep-link open.
type Navigator interface {
	Navigate(target string) error
}

// Clipboard receives copyable values.
type Clipboard interface {
	WriteText(value string) error
}

// Callback is a consumer-supplied override. When set on a Handler it
// receives every action and the default behavior is skipped entirely.
type Callback func(action enhance.SuggestedAction)

// Handler dispatches suggested actions.
type Handler struct {
	onAction  Callback
	navigator Navigator
	clipboard Clipboard
	logger    log.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithCallback installs a consumer callback that replaces the default
// handling for every action.
func WithCallback(cb Callback) Option {
	return func(h *Handler) { h.onAction = cb }
}

// WithNavigator sets the navigation sink used for navigate actions.
func WithNavigator(n Navigator) Option {
	return func(h *Handler) { h.navigator = n }
}

// WithClipboard sets the clipboard sink used for copy actions.
func WithClipboard(c Clipboard) Option {
	return func(h *Handler) { h.clipboard = c }
}

// NewHandler builds a Handler. Without options every action is log-only.
func NewHandler(logger log.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = log.NewNop()
	}
	h := &Handler{logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Dispatch routes one action. With a callback installed the callback gets
// the action and nothing else happens. Otherwise navigate actions go to the
// Navigator, copy actions write their payload value to the Clipboard, and
// every other kind is logged and dropped.
func (h *Handler) Dispatch(action enhance.SuggestedAction) error {
	if h.onAction != nil {
		h.onAction(action)
		return nil
	}

	switch action.Action {
	case enhance.ActionNavigate:
		if h.navigator == nil {
			h.logger.Warn("navigate action with no navigator", "action", action.ID)
			return nil
		}
		if err := h.navigator.Navigate(action.Target); err != nil {
			return fmt.Errorf("navigating to %q: %w", action.Target, err)
		}
		return nil

	case enhance.ActionCopy:
		value := payloadValue(action)
		if value == "" {
			h.logger.Warn("copy action with no payload value", "action", action.ID)
			return nil
		}
		if h.clipboard == nil {
			h.logger.Warn("copy action with no clipboard", "action", action.ID)
			return nil
		}
		if err := h.clipboard.WriteText(value); err != nil {
			return fmt.Errorf("copying action %q value: %w", action.ID, err)
		}
		return nil

	default:
		h.logger.Info("unhandled action kind",
			"action", action.ID,
			"kind", string(action.Action),
			"entity_id", action.EntityID,
		)
		return nil
	}
}

func payloadValue(action enhance.SuggestedAction) string {
	if action.Payload == nil {
		return ""
	}
	switch v := action.Payload["value"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}
