package workflow

import (
	"math"
	"sync"
)

// ProgressFunc receives an integer percentage in [0, 100].
type ProgressFunc func(percent int)

// Counter tracks processed entries against a total fixed at creation.
//
// Completions may arrive from many goroutines. The increment and the callback
// run under one lock, so a callback never observes a smaller value than the
// one before it and exactly one callback fires per Done.
type Counter struct {
	mu        sync.Mutex
	processed int
	total     int
	onChange  ProgressFunc
}

// NewCounter returns a counter over total entries. fn may be nil. A counter
// with total 0 never calls fn.
func NewCounter(total int, fn ProgressFunc) *Counter {
	if total < 0 {
		total = 0
	}
	return &Counter{total: total, onChange: fn}
}

// Done records one finished entry and reports the new percentage.
func (c *Counter) Done() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.processed < c.total {
		c.processed++
	}
	p := c.percent()
	if c.onChange != nil && c.total > 0 {
		c.onChange(p)
	}
	return p
}

// Percent returns round(processed / total * 100), or 0 when total is 0.
func (c *Counter) Percent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.percent()
}

func (c *Counter) percent() int {
	if c.total == 0 {
		return 0
	}
	return int(math.Round(float64(c.processed) / float64(c.total) * 100))
}

// Processed returns how many entries have finished.
func (c *Counter) Processed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processed
}

// Total returns the entry count fixed at creation.
func (c *Counter) Total() int {
	return c.total
}
