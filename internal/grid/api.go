package grid

import "sync"

// EventDataRowsChange is dispatched through the API whenever a non-empty row
// list is applied.
const EventDataRowsChange = "onDataRowsChange"

// EventCallback receives the params passed to DispatchEvent.
type EventCallback func(params any)

// DataRowsChangeEvent is the payload of EventDataRowsChange.
type DataRowsChangeEvent struct {
	Data []Row
}

type listener struct {
	name     string
	callback EventCallback
}

// API is the control surface handed to the embedding program through
// OnReady. Its methods are safe to call from any goroutine; callbacks run on
// the dispatching goroutine without the lock held, so they may call back into
// the API.
type API struct {
	mu        sync.Mutex
	id        string
	listeners []listener
	rows      []Row

	scrollIndex int
	scrollSeq   uint64
}

func newAPI(id string) *API {
	return &API{id: id, scrollIndex: -1}
}

// ID returns the token of the grid instance owning this API.
func (a *API) ID() string {
	return a.id
}

// AddEventListener registers cb under name. A name that is already
// registered keeps its first callback.
func (a *API) AddEventListener(name string, cb EventCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, l := range a.listeners {
		if l.name == name {
			return
		}
	}
	a.listeners = append(a.listeners, listener{name: name, callback: cb})
}

// DispatchEvent calls the callback registered under name with params.
// It reports whether a callback ran.
func (a *API) DispatchEvent(name string, params any) bool {
	a.mu.Lock()
	var cb EventCallback
	for _, l := range a.listeners {
		if l.name == name {
			cb = l.callback
			break
		}
	}
	a.mu.Unlock()

	if cb == nil {
		return false
	}
	cb(params)
	return true
}

// RemoveEventListener drops the listener registered under name, if any.
// It always returns true.
func (a *API) RemoveEventListener(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.listeners[:0]
	for _, l := range a.listeners {
		if l.name != name {
			kept = append(kept, l)
		}
	}
	clear(a.listeners[len(kept):])
	a.listeners = kept
	return true
}

// RemoveEventListeners drops every listener. It always returns true.
func (a *API) RemoveEventListeners() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.listeners = nil
	return true
}

// Events returns the registered event names in registration order.
func (a *API) Events() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	names := make([]string, len(a.listeners))
	for i, l := range a.listeners {
		names[i] = l.name
	}
	return names
}

// Rows returns the most recently applied non-empty row list.
func (a *API) Rows() []Row {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rows
}

func (a *API) setRows(rows []Row) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = rows
}

// ScrollToIndex asks the presentation layer to bring row index into view.
func (a *API) ScrollToIndex(index int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.scrollIndex = index
	a.scrollSeq++
}

// ScrollTarget returns the last requested row index (-1 before any request)
// and a sequence number that grows with every request, so repeated requests
// for the same index can be told apart.
func (a *API) ScrollTarget() (index int, seq uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scrollIndex, a.scrollSeq
}
