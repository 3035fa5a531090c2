package timectrl

import (
	"context"
	"sync"
	"time"
)

// Mode describes how the Controller paces simulated years.
type Mode int

const (
	// Paced advances one simulated year per wall-clock interval, for
	// interactive viewing.
	Paced Mode = iota
	// Accelerated advances years as fast as the step function runs.
	Accelerated
)

// Controller paces a year-stepping simulation and notifies listeners
// after each completed year. Ticks are atomic: the step function runs
// to completion before listeners observe the new year.
type Controller struct {
	mu sync.RWMutex

	StartYear int
	Interval  time.Duration
	Mode      Mode

	currentYear int
	listeners   []func(int)
}

// NewController constructs a controller. Interval is ignored in
// Accelerated mode.
func NewController(startYear int, interval time.Duration, mode Mode) *Controller {
	return &Controller{
		StartYear:   startYear,
		Interval:    interval,
		Mode:        mode,
		currentYear: startYear,
	}
}

// Year returns the most recently completed simulation year.
func (c *Controller) Year() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentYear
}

// AddListener registers a callback invoked after every completed year.
func (c *Controller) AddListener(fn func(int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Run advances the simulation by calling step once per year, years
// times. In Paced mode each step waits for the interval ticker; in
// Accelerated mode steps run back to back. Run stops early when the
// context is cancelled or step returns an error.
func (c *Controller) Run(ctx context.Context, years int, step func(context.Context) error) error {
	var ticker *time.Ticker
	if c.Mode == Paced && c.Interval > 0 {
		ticker = time.NewTicker(c.Interval)
		defer ticker.Stop()
	}

	for i := 0; i < years; i++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := step(ctx); err != nil {
			return err
		}

		c.mu.Lock()
		c.currentYear = c.StartYear + i + 1
		year := c.currentYear
		listeners := append([]func(int){}, c.listeners...)
		c.mu.Unlock()

		for _, fn := range listeners {
			fn(year)
		}
	}
	return nil
}
