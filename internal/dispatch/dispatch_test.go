package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedesk/assist/internal/enhance"
	"github.com/pipedesk/assist/internal/log"
)

type fakeNavigator struct {
	targets []string
	err     error
}

func (f *fakeNavigator) Navigate(target string) error {
	if f.err != nil {
		return f.err
	}
	f.targets = append(f.targets, target)
	return nil
}

type fakeClipboard struct {
	values []string
}

func (f *fakeClipboard) WriteText(value string) error {
	f.values = append(f.values, value)
	return nil
}

func TestDispatchCallbackOverridesDefaults(t *testing.T) {
	nav := &fakeNavigator{}
	var received []enhance.SuggestedAction

	h := NewHandler(log.NewNop(),
		WithNavigator(nav),
		WithCallback(func(a enhance.SuggestedAction) { received = append(received, a) }),
	)

	err := h.Dispatch(enhance.SuggestedAction{
		ID:     "view-deal-d1",
		Action: enhance.ActionNavigate,
		Target: "/deals/d1",
	})

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "view-deal-d1", received[0].ID)
	assert.Empty(t, nav.targets, "callback must take the place of the default handler")
}

func TestDispatchNavigates(t *testing.T) {
	nav := &fakeNavigator{}
	h := NewHandler(log.NewNop(), WithNavigator(nav))

	err := h.Dispatch(enhance.SuggestedAction{
		ID:     "refine-search",
		Action: enhance.ActionNavigate,
		Target: "/search",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"/search"}, nav.targets)
}

func TestDispatchNavigateErrorWrapped(t *testing.T) {
	boom := errors.New("window gone")
	h := NewHandler(log.NewNop(), WithNavigator(&fakeNavigator{err: boom}))

	err := h.Dispatch(enhance.SuggestedAction{Action: enhance.ActionNavigate, Target: "/x"})

	assert.ErrorIs(t, err, boom)
}

func TestDispatchCopiesPayloadValue(t *testing.T) {
	clip := &fakeClipboard{}
	h := NewHandler(log.NewNop(), WithClipboard(clip))

	err := h.Dispatch(enhance.SuggestedAction{
		ID:      "copy-amount",
		Action:  enhance.ActionCopy,
		Payload: map[string]any{"value": "5000"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"5000"}, clip.values)
}

func TestDispatchOtherKindsAreLogOnly(t *testing.T) {
	h := NewHandler(log.NewNop())

	for _, kind := range []enhance.ActionKind{enhance.ActionView, enhance.ActionEdit, enhance.ActionCreate, enhance.ActionCall} {
		err := h.Dispatch(enhance.SuggestedAction{ID: "a", Action: kind})
		assert.NoError(t, err)
	}
}

func TestDispatchMissingSinksAreNoops(t *testing.T) {
	h := NewHandler(nil)

	assert.NoError(t, h.Dispatch(enhance.SuggestedAction{Action: enhance.ActionNavigate, Target: "/x"}))
	assert.NoError(t, h.Dispatch(enhance.SuggestedAction{Action: enhance.ActionCopy, Payload: map[string]any{"value": "v"}}))
}
