package testutil

import (
	"context"
	"time"

	"identify/pkg/requestcontext"
)

// ContextAt returns a context whose request time is at, so events carry a
// deterministic occurred_at.
func ContextAt(at time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), at)
}

// Clock hands out strictly increasing request times.
type Clock struct {
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Next advances the clock by one second and returns a context stamped with it.
func (c *Clock) Next() context.Context {
	c.now = c.now.Add(time.Second)
	return ContextAt(c.now)
}
