package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_OnlyLatestTicketFires(t *testing.T) {
	s := NewSlot[string](500 * time.Millisecond)
	require.Equal(t, 500*time.Millisecond, s.Delay())

	t1 := s.Schedule("g")
	t2 := s.Schedule("gr")
	t3 := s.Schedule("g")
	require.True(t, s.Pending())

	_, ok := s.Fire(t1)
	assert.False(t, ok, "superseded ticket must not fire")
	_, ok = s.Fire(t2)
	assert.False(t, ok, "superseded ticket must not fire")

	v, ok := s.Fire(t3)
	require.True(t, ok)
	assert.Equal(t, "g", v)
	assert.False(t, s.Pending())

	_, ok = s.Fire(t3)
	assert.False(t, ok, "a ticket fires at most once")
}

func TestSlot_Cancel(t *testing.T) {
	s := NewSlot[int](time.Second)
	tk := s.Schedule(7)
	s.Cancel()
	_, ok := s.Fire(tk)
	assert.False(t, ok)
}

func TestSlot_NegativeDelayClamped(t *testing.T) {
	assert.Equal(t, time.Duration(0), NewSlot[int](-time.Second).Delay())
}

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	var runs atomic.Int32
	done := make(chan struct{}, 4)
	d := NewDebouncer(20*time.Millisecond, func() {
		runs.Add(1)
		done <- struct{}{}
	})
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger()
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDebouncer_FlushAndStop(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(time.Hour, func() { runs.Add(1) })

	d.Flush()
	assert.Equal(t, int32(0), runs.Load(), "flush without a trigger is a no-op")

	d.Trigger()
	d.Flush()
	assert.Equal(t, int32(1), runs.Load())

	d.Stop()
	d.Trigger()
	d.Flush()
	assert.Equal(t, int32(1), runs.Load(), "stopped debouncer ignores triggers")
}
