// Package debounce delays an action until input has been quiet for a while.
//
// Each Schedule supersedes the previously scheduled action. The delay runs as a
// tea.Tick; when it elapses the program receives a FiredMsg, and Fire returns the
// action's command only if no newer Schedule (or Cancel) happened in between.
package debounce

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Action produces the command to run once the delay elapses
type Action func() tea.Cmd

// FiredMsg is delivered when a scheduled delay elapses
type FiredMsg struct {
	owner  *Dispatcher
	seq    uint64
	action Action
}

// Dispatcher keeps at most one pending action
type Dispatcher struct {
	mu    sync.Mutex
	seq   uint64
	delay time.Duration
}

// New creates a dispatcher with a default delay
func New(delay time.Duration) *Dispatcher {
	return &Dispatcher{delay: delay}
}

// Schedule supersedes any pending action and schedules action after delay.
// A non-positive delay uses the dispatcher's default.
func (d *Dispatcher) Schedule(action Action, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		delay = d.delay
	}

	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	return tea.Tick(delay, func(time.Time) tea.Msg {
		return FiredMsg{owner: d, seq: seq, action: action}
	})
}

// Cancel voids the pending action, if any
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	d.seq++
	d.mu.Unlock()
}

// Fire returns the command of msg's action when msg is the latest schedule of this
// dispatcher, and nil when it was superseded or cancelled
func (d *Dispatcher) Fire(msg FiredMsg) tea.Cmd {
	if msg.owner != d || msg.action == nil {
		return nil
	}

	d.mu.Lock()
	current := msg.seq == d.seq
	d.mu.Unlock()

	if !current {
		return nil
	}
	return msg.action()
}
