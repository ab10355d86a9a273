// Package focus implements the keyboard focus trap of the detail dialog.
//
// While the dialog is open, Tab and Shift+Tab cycle through the dialog's
// focusable elements only, and Escape closes it. Closing restores focus to the
// element that had it before the dialog opened, if that element still exists.
package focus

import "sync"

// Host is the screen the dialog lives on
type Host interface {
	// Focused returns the id of the focused element, "" when none
	Focused() string
	// Focus moves focus to the element with id
	Focus(id string)
	// Exists reports whether an element with id is still on screen
	Exists(id string) bool
}

// Key is a key event relevant to the trap
type Key int

const (
	KeyOther Key = iota
	KeyTab
	KeyShiftTab
	KeyEscape
)

// Dialog is the content shown in the dialog
type Dialog struct {
	Title string
	Body  string
}

// session exists exactly while the dialog is open
type session struct {
	previous   string
	focusables []string
	dialog     Dialog
}

// Controller opens and closes the dialog and routes keys while it is open
type Controller struct {
	mu      sync.Mutex
	host    Host
	session *session
	handler func(Key) bool
}

// NewController creates a closed controller on host
func NewController(host Host) *Controller {
	return &Controller{host: host}
}

// Open shows dialog, capturing the current focus and trapping focus among
// focusables. The first focusable receives focus. With no focusables the dialog
// is shown without containment; Escape still closes it.
func (c *Controller) Open(dialog Dialog, focusables []string) {
	c.mu.Lock()
	if c.session != nil {
		// reopening keeps the original focus to restore
		prev := c.session.previous
		c.session = &session{previous: prev, focusables: append([]string(nil), focusables...), dialog: dialog}
	} else {
		c.session = &session{previous: c.host.Focused(), focusables: append([]string(nil), focusables...), dialog: dialog}
	}
	c.handler = c.handleKey
	first := ""
	if len(c.session.focusables) > 0 {
		first = c.session.focusables[0]
	}
	c.mu.Unlock()

	if first != "" {
		c.host.Focus(first)
	}
}

// Close hides the dialog and restores the previous focus when its element
// still exists. Closing a closed dialog does nothing.
func (c *Controller) Close() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.handler = nil
	c.mu.Unlock()

	if s == nil || s.previous == "" {
		return
	}
	if c.host.Exists(s.previous) {
		c.host.Focus(s.previous)
	}
}

// IsOpen reports whether the dialog is shown
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Dialog returns the shown dialog
func (c *Controller) Dialog() (Dialog, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Dialog{}, false
	}
	return c.session.dialog, true
}

// Focusables returns the trapped element ids
func (c *Controller) Focusables() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return append([]string(nil), c.session.focusables...)
}

// HandleKey routes k to the installed handler. It returns true when the key was
// consumed by the trap; false when the dialog is closed or the key is not trapped.
func (c *Controller) HandleKey(k Key) bool {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()

	if h == nil {
		return false
	}
	return h(k)
}

func (c *Controller) handleKey(k Key) bool {
	switch k {
	case KeyEscape:
		c.Close()
		return true
	case KeyTab, KeyShiftTab:
	default:
		return false
	}

	c.mu.Lock()
	if c.session == nil || len(c.session.focusables) == 0 {
		c.mu.Unlock()
		return false
	}
	focusables := c.session.focusables
	c.mu.Unlock()

	current := indexOf(focusables, c.host.Focused())
	last := len(focusables) - 1

	var next int
	switch {
	case current < 0 && k == KeyTab:
		next = 0
	case current < 0:
		next = last
	case k == KeyTab && current == last:
		next = 0
	case k == KeyTab:
		next = current + 1
	case current == 0:
		next = last
	default:
		next = current - 1
	}

	c.host.Focus(focusables[next])
	return true
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
