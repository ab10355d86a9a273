package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type fakeHost struct {
	focused  string
	elements map[string]bool
}

func newFakeHost(focused string, ids ...string) *fakeHost {
	h := &fakeHost{focused: focused, elements: map[string]bool{}}
	for _, id := range ids {
		h.elements[id] = true
	}
	return h
}

func (h *fakeHost) Focused() string       { return h.focused }
func (h *fakeHost) Focus(id string)       { h.focused = id }
func (h *fakeHost) Exists(id string) bool { return h.elements[id] }

var buttons = []string{"modal.close", "modal.edit", "modal.copy"}

func TestOpenFocusesFirstAndCapturesPrevious(t *testing.T) {
	host := newFakeHost("results", "results")
	c := NewController(host)

	c.Open(Dialog{Title: "Detalle"}, buttons)

	assert.True(t, c.IsOpen())
	assert.Equal(t, "modal.close", host.focused)
	d, ok := c.Dialog()
	require.True(t, ok)
	assert.Equal(t, "Detalle", d.Title)
	assert.Equal(t, buttons, c.Focusables())
}

func TestTabWrapsForwardAndBackward(t *testing.T) {
	host := newFakeHost("results", "results")
	c := NewController(host)
	c.Open(Dialog{}, buttons)

	host.focused = "modal.copy"
	require.True(t, c.HandleKey(KeyTab))
	assert.Equal(t, "modal.close", host.focused, "Tab on last wraps to first")

	require.True(t, c.HandleKey(KeyShiftTab))
	assert.Equal(t, "modal.copy", host.focused, "Shift+Tab on first wraps to last")

	require.True(t, c.HandleKey(KeyShiftTab))
	assert.Equal(t, "modal.edit", host.focused)

	require.True(t, c.HandleKey(KeyTab))
	assert.Equal(t, "modal.copy", host.focused)
}

func TestTabFromOutsideEntersDialog(t *testing.T) {
	host := newFakeHost("results", "results")
	c := NewController(host)
	c.Open(Dialog{}, buttons)

	host.focused = "somewhere-else"
	c.HandleKey(KeyTab)
	assert.Equal(t, "modal.close", host.focused)

	host.focused = "somewhere-else"
	c.HandleKey(KeyShiftTab)
	assert.Equal(t, "modal.copy", host.focused)
}

func TestEscapeClosesAndRestoresFocus(t *testing.T) {
	host := newFakeHost("results", "results")
	c := NewController(host)
	c.Open(Dialog{}, buttons)

	require.True(t, c.HandleKey(KeyEscape))
	assert.False(t, c.IsOpen())
	assert.Equal(t, "results", host.focused)

	assert.False(t, c.HandleKey(KeyTab), "handler is uninstalled after close")
	assert.False(t, c.HandleKey(KeyEscape))
}

func TestCloseWhenPreviousElementGone(t *testing.T) {
	host := newFakeHost("result-card-3", "result-card-3")
	c := NewController(host)
	c.Open(Dialog{}, buttons)

	delete(host.elements, "result-card-3")
	c.Close()

	assert.False(t, c.IsOpen())
	assert.Equal(t, "modal.close", host.focused, "focus restore is a no-op when the element is gone")
}

func TestZeroFocusablesSkipsContainment(t *testing.T) {
	host := newFakeHost("search", "search")
	c := NewController(host)
	c.Open(Dialog{Body: "sin botones"}, nil)

	assert.True(t, c.IsOpen())
	assert.Equal(t, "search", host.focused)
	assert.False(t, c.HandleKey(KeyTab))
	assert.False(t, c.HandleKey(KeyShiftTab))

	assert.True(t, c.HandleKey(KeyEscape))
	assert.False(t, c.IsOpen())
	assert.Equal(t, "search", host.focused)
}

func TestOtherKeysPassThrough(t *testing.T) {
	c := NewController(newFakeHost(""))
	c.Open(Dialog{}, buttons)
	assert.False(t, c.HandleKey(KeyOther))
}

func TestCloseWhenClosedIsNoop(t *testing.T) {
	host := newFakeHost("search", "search")
	c := NewController(host)
	c.Close()
	assert.Equal(t, "search", host.focused)
	_, ok := c.Dialog()
	assert.False(t, ok)
	assert.Nil(t, c.Focusables())
}

func TestReopenKeepsOriginalFocus(t *testing.T) {
	host := newFakeHost("results", "results")
	c := NewController(host)
	c.Open(Dialog{Title: "uno"}, buttons)
	c.Open(Dialog{Title: "dos"}, buttons)

	c.Close()
	assert.Equal(t, "results", host.focused)
}

// Focus never leaves the dialog while it is open, and Tab from the last
// element always lands on the first.
func TestFocusStaysTrappedProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "n")
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}

		host := newFakeHost("outside", "outside")
		c := NewController(host)
		c.Open(Dialog{}, ids)

		keys := rapid.SliceOf(rapid.SampledFrom([]Key{KeyTab, KeyShiftTab})).Draw(rt, "keys")
		for _, k := range keys {
			wasLast := host.focused == ids[n-1]
			wasFirst := host.focused == ids[0]
			c.HandleKey(k)

			if indexOf(ids, host.focused) < 0 {
				rt.Fatalf("focus escaped to %q", host.focused)
			}
			if k == KeyTab && wasLast && host.focused != ids[0] {
				rt.Fatalf("Tab on last went to %q", host.focused)
			}
			if k == KeyShiftTab && wasFirst && host.focused != ids[n-1] {
				rt.Fatalf("Shift+Tab on first went to %q", host.focused)
			}
		}

		c.HandleKey(KeyEscape)
		if host.focused != "outside" {
			rt.Fatalf("focus not restored, got %q", host.focused)
		}
	})
}
