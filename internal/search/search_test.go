package search

import (
	"testing"
	"time"

	"notes-cli/internal/debounce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_CommitsOnlySettledValue(t *testing.T) {
	c := NewController(0)
	require.Equal(t, DefaultWindow, c.Window())

	var tickets []debounce.Ticket
	for _, raw := range []string{"g", "gr", "gro", "gr", "groceries"} {
		tk, changed := c.Input(raw)
		require.True(t, changed)
		tickets = append(tickets, tk)
	}
	assert.Equal(t, "groceries", c.Raw())
	assert.Equal(t, "", c.Committed())
	assert.False(t, c.Settled())

	// Timers for intermediate values fire first and must not commit.
	for _, tk := range tickets[:len(tickets)-1] {
		v, changed := c.Fire(tk)
		assert.False(t, changed)
		assert.Equal(t, "", v)
	}

	v, changed := c.Fire(tickets[len(tickets)-1])
	require.True(t, changed)
	assert.Equal(t, "groceries", v)
	assert.True(t, c.Settled())
}

func TestController_TogglingBackDoesNotEmit(t *testing.T) {
	c := NewController(time.Millisecond)
	tk, _ := c.Input("milk")
	_, changed := c.Fire(tk)
	require.True(t, changed)

	t1, _ := c.Input("milks")
	t2, _ := c.Input("milk")

	_, changed = c.Fire(t1)
	assert.False(t, changed)
	v, changed := c.Fire(t2)
	assert.False(t, changed, "settling on the already committed value is not a change")
	assert.Equal(t, "milk", v)
}

func TestController_SameRawIsNoop(t *testing.T) {
	c := NewController(time.Millisecond)
	notified := 0
	c.Subscribe(func() { notified++ })

	_, changed := c.Input("")
	assert.False(t, changed)
	assert.Equal(t, 0, notified)

	c.Input("a")
	_, changed = c.Input("a")
	assert.False(t, changed)
	assert.Equal(t, 1, notified)
}
