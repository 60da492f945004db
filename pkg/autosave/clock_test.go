package autosave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_RunsDueInOrder(t *testing.T) {
	t.Parallel()
	c := NewManualClock(epoch)

	var order []string
	c.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	c.AfterFunc(time.Second, func() { order = append(order, "a") })
	c.AfterFunc(time.Second, func() { order = append(order, "b") })
	assert.Equal(t, 3, c.Pending())

	c.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, epoch.Add(2*time.Second), c.Now())

	c.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, c.Pending())
}

func TestManualClock_Stop(t *testing.T) {
	t.Parallel()
	c := NewManualClock(epoch)

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestManualClock_CallbackSchedulesMore(t *testing.T) {
	t.Parallel()
	c := NewManualClock(epoch)

	n := 0
	var tick func()
	tick = func() {
		n++
		if n < 3 {
			c.AfterFunc(time.Second, tick)
		}
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(10 * time.Second)
	assert.Equal(t, 3, n)
}

func TestRealClock(t *testing.T) {
	t.Parallel()
	done := make(chan struct{})
	RealClock().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real clock timer never fired")
	}
}
