package grid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPI_AddEventListenerKeepsFirst(t *testing.T) {
	a := newAPI("grid")
	var got []string

	a.AddEventListener("x", func(any) { got = append(got, "cb1") })
	a.AddEventListener("x", func(any) { got = append(got, "cb2") })

	assert.True(t, a.DispatchEvent("x", nil))
	assert.Equal(t, []string{"cb1"}, got)
	assert.Equal(t, []string{"x"}, a.Events())
}

func TestAPI_DispatchWithoutListener(t *testing.T) {
	a := newAPI("grid")

	assert.NotPanics(t, func() {
		assert.False(t, a.DispatchEvent("missing", map[string]int{"a": 1}))
	})
	assert.Empty(t, a.Events())
}

func TestAPI_NilCallbackIsSkipped(t *testing.T) {
	a := newAPI("grid")
	a.AddEventListener("x", nil)

	assert.NotPanics(t, func() {
		assert.False(t, a.DispatchEvent("x", nil))
	})
	assert.Equal(t, []string{"x"}, a.Events())
}

func TestAPI_RemoveEventListener(t *testing.T) {
	a := newAPI("grid")
	var calls []string
	a.AddEventListener("a", func(any) { calls = append(calls, "a") })
	a.AddEventListener("b", func(any) { calls = append(calls, "b") })
	a.AddEventListener("c", func(any) { calls = append(calls, "c") })

	assert.True(t, a.RemoveEventListener("b"))
	assert.True(t, a.RemoveEventListener("never-registered"))

	a.DispatchEvent("a", nil)
	a.DispatchEvent("b", nil)
	a.DispatchEvent("c", nil)

	assert.Equal(t, []string{"a", "c"}, calls)
	assert.Equal(t, []string{"a", "c"}, a.Events())

	a.AddEventListener("b", func(any) { calls = append(calls, "b2") })
	a.DispatchEvent("b", nil)
	assert.Equal(t, []string{"a", "c", "b2"}, calls)
}

func TestAPI_RemoveEventListeners(t *testing.T) {
	a := newAPI("grid")
	var calls int
	for _, name := range []string{"a", "b", EventDataRowsChange} {
		a.AddEventListener(name, func(any) { calls++ })
	}

	assert.True(t, a.RemoveEventListeners())

	for _, name := range []string{"a", "b", EventDataRowsChange} {
		assert.False(t, a.DispatchEvent(name, nil))
	}
	assert.Zero(t, calls)
}

func TestAPI_CallbackMayReenter(t *testing.T) {
	a := newAPI("grid")
	a.AddEventListener("once", func(any) {
		a.RemoveEventListener("once")
		a.AddEventListener("next", nil)
	})

	assert.True(t, a.DispatchEvent("once", nil))
	assert.Equal(t, []string{"next"}, a.Events())
}

func TestAPI_ScrollToIndex(t *testing.T) {
	a := newAPI("grid")

	idx, seq := a.ScrollTarget()
	assert.Equal(t, -1, idx)
	assert.Zero(t, seq)

	a.ScrollToIndex(7)
	a.ScrollToIndex(7)

	idx, seq = a.ScrollTarget()
	assert.Equal(t, 7, idx)
	assert.Equal(t, uint64(2), seq)
}

func TestAPI_ConcurrentRegistration(t *testing.T) {
	a := newAPI("grid")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.AddEventListener("shared", func(any) {})
			a.DispatchEvent("shared", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"shared"}, a.Events())
}
