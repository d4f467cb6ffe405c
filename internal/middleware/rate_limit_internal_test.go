package middleware

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLimiterSet_EvictsIdleClients(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
	set := newLimiterSet(rate.Every(time.Minute), 1, time.Minute, clock.now)

	for i := 0; i < 100; i++ {
		assert.True(t, set.allow(fmt.Sprintf("10.0.0.%d", i)))
	}
	assert.Equal(t, 100, set.size())

	clock.advance(30 * time.Second)
	assert.False(t, set.allow("10.0.0.1"), "bucket is still empty")

	clock.advance(45 * time.Second)
	assert.True(t, set.allow("192.168.1.1"))
	// Only the client seen 45s ago survives the sweep, plus the new one.
	assert.Equal(t, 2, set.size())
}

func TestLimiterSet_EvictionDoesNotResetActiveClients(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
	set := newLimiterSet(rate.Every(time.Minute), 1, time.Minute, clock.now)

	assert.True(t, set.allow("10.0.0.1"))
	for i := 0; i < 5; i++ {
		clock.advance(20 * time.Second)
		set.allow("10.0.0.1")
	}
	assert.Equal(t, 1, set.size())
}

func TestIdleAfter(t *testing.T) {
	assert.Equal(t, time.Minute, idleAfter(time.Second, 3))
	assert.Equal(t, 10*time.Minute, idleAfter(2*time.Minute, 5))
}
