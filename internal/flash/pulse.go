// Package flash drives the short highlight shown on a cell whose value
// changed.
//
// A Pulse clears any highlight immediately, turns it on after Timing.Lead and
// off again after Timing.Hold. Delays are Bubble Tea tick commands; every
// message carries the generation of the pulse that scheduled it, so messages
// from an earlier trigger or from a stopped pulse are ignored when they land.
package flash

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Default delays of the highlight sequence.
const (
	DefaultLead = 10 * time.Millisecond
	DefaultHold = 1000 * time.Millisecond
)

// Timing holds the two delays of the highlight sequence.
type Timing struct {
	Lead time.Duration
	Hold time.Duration
}

// DefaultTiming returns the 10ms / 1000ms sequence.
func DefaultTiming() Timing {
	return Timing{Lead: DefaultLead, Hold: DefaultHold}
}

// State is the position of a pulse in its sequence.
type State int

const (
	// StateIdle means no highlight and nothing scheduled.
	StateIdle State = iota
	// StateClearing is entered on trigger while the old highlight is removed.
	StateClearing
	// StateArmed waits for the lead delay.
	StateArmed
	// StateHighlighted shows the highlight and waits for the hold delay.
	StateHighlighted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClearing:
		return "clearing"
	case StateArmed:
		return "armed"
	case StateHighlighted:
		return "highlighted"
	default:
		return "unknown"
	}
}

// HighlightMsg turns the highlight of pulse Key on.
type HighlightMsg struct {
	Key string
	Gen uint64
}

// ClearMsg turns the highlight of pulse Key off.
type ClearMsg struct {
	Key string
	Gen uint64
}

// Pulse is the highlight sequence of one cell.
type Pulse struct {
	key     string
	timing  Timing
	state   State
	gen     uint64
	stopped bool

	onClass func(on bool)
}

// NewPulse returns an idle pulse. onClass, when non-nil, is called every time
// the highlight is added or removed.
func NewPulse(key string, timing Timing, onClass func(on bool)) *Pulse {
	return &Pulse{key: key, timing: timing, onClass: onClass}
}

// Key returns the cell key the pulse was created for.
func (p *Pulse) Key() string {
	return p.key
}

// State returns the current state.
func (p *Pulse) State() State {
	return p.state
}

// Highlighted reports whether the highlight is currently shown.
func (p *Pulse) Highlighted() bool {
	return p.state == StateHighlighted
}

// Stopped reports whether Stop has been called.
func (p *Pulse) Stopped() bool {
	return p.stopped
}

// Trigger restarts the sequence: the highlight is removed now and a
// HighlightMsg is scheduled after the lead delay. A stopped pulse returns nil.
func (p *Pulse) Trigger() tea.Cmd {
	if p.stopped {
		return nil
	}

	p.gen++
	p.state = StateClearing
	p.setClass(false)
	p.state = StateArmed

	msg := HighlightMsg{Key: p.key, Gen: p.gen}
	return tea.Tick(p.timing.Lead, func(time.Time) tea.Msg { return msg })
}

// Update advances the sequence on a message scheduled by this pulse and
// returns the next command. Anything else, including messages from an older
// trigger, returns nil without side effects.
func (p *Pulse) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case HighlightMsg:
		if !p.current(msg.Key, msg.Gen) || p.state != StateArmed {
			return nil
		}
		p.state = StateHighlighted
		p.setClass(true)

		next := ClearMsg{Key: p.key, Gen: p.gen}
		return tea.Tick(p.timing.Hold, func(time.Time) tea.Msg { return next })

	case ClearMsg:
		if !p.current(msg.Key, msg.Gen) || p.state != StateHighlighted {
			return nil
		}
		p.state = StateIdle
		p.setClass(false)
	}
	return nil
}

// Stop cancels the sequence. Messages already in flight become no-ops and
// later triggers are ignored. The class is left untouched.
func (p *Pulse) Stop() {
	p.stopped = true
	p.gen++
	p.state = StateIdle
}

func (p *Pulse) current(key string, gen uint64) bool {
	return !p.stopped && key == p.key && gen == p.gen
}

func (p *Pulse) setClass(on bool) {
	if p.onClass != nil {
		p.onClass(on)
	}
}
