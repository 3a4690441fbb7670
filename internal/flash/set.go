package flash

import tea "github.com/charmbracelet/bubbletea"

// Set holds the pulses of every cell of a grid, keyed by cell key. Finished
// pulses are kept so their generation keeps counting; Retain drops the pulses
// of cells that went away. A pulse created after a drop starts above every
// generation handed out before, so late messages never match it.
type Set struct {
	timing Timing
	pulses map[string]*Pulse
	floor  uint64
}

// NewSet returns an empty set whose pulses use timing.
func NewSet(timing Timing) *Set {
	return &Set{timing: timing, pulses: make(map[string]*Pulse)}
}

// Trigger restarts the pulse of every key, creating pulses as needed.
func (s *Set) Trigger(keys ...string) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(keys))
	for _, key := range keys {
		p, ok := s.pulses[key]
		if !ok {
			p = NewPulse(key, s.timing, nil)
			p.gen = s.floor
			s.pulses[key] = p
		}
		if cmd := p.Trigger(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// Update routes pulse messages to their pulse. Other messages return nil.
func (s *Set) Update(msg tea.Msg) tea.Cmd {
	var key string
	switch m := msg.(type) {
	case HighlightMsg:
		key = m.Key
	case ClearMsg:
		key = m.Key
	default:
		return nil
	}

	p, ok := s.pulses[key]
	if !ok {
		return nil
	}
	return p.Update(msg)
}

// Highlighted reports whether the cell under key is highlighted.
func (s *Set) Highlighted(key string) bool {
	p, ok := s.pulses[key]
	return ok && p.Highlighted()
}

// Active returns the number of pulses that have not finished.
func (s *Set) Active() int {
	n := 0
	for _, p := range s.pulses {
		if p.State() != StateIdle {
			n++
		}
	}
	return n
}

// Len returns the number of tracked pulses, finished or not.
func (s *Set) Len() int {
	return len(s.pulses)
}

// Retain stops and drops the pulses of cells not in keep.
func (s *Set) Retain(keep map[string]struct{}) {
	for key, p := range s.pulses {
		if _, ok := keep[key]; !ok {
			s.drop(key, p)
		}
	}
}

// StopAll stops and drops every pulse.
func (s *Set) StopAll() {
	for key, p := range s.pulses {
		s.drop(key, p)
	}
}

func (s *Set) drop(key string, p *Pulse) {
	p.Stop()
	s.floor = max(s.floor, p.gen)
	delete(s.pulses, key)
}
