// Package scanner owns scanner connectivity and the scan workflow: one
// trigger turns into at most one scanned item, appended to the in-memory
// collection and persisted through the item store.
package scanner

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// State is the scanner's connectivity state. Exactly one value holds at a
// time and transitions happen only through the Controller.
type State string

const (
	Disconnected State = "disconnected"
	Connecting   State = "connecting"
	Connected    State = "connected"
)

// Probe checks whether the scanner hardware endpoint is reachable.
type Probe interface {
	ScannerHealth(ctx context.Context) error
}

// Controller is the connectivity state machine. State changes are pushed
// to subscribers, which gates the scan workflow and drives status UI in
// the layer above.
type Controller struct {
	mu    sync.Mutex
	state State
	probe Probe
	subs  []func(State)
	log   zerolog.Logger
}

// NewController creates a controller in the disconnected state.
func NewController(probe Probe, log zerolog.Logger) *Controller {
	return &Controller{
		state: Disconnected,
		probe: probe,
		log:   log.With().Str("component", "connection").Logger(),
	}
}

// State returns the current connectivity state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a callback invoked on every state change.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Connect attempts to bring the scanner online. Calling it while already
// connecting or connected is a no-op. A failed attempt leaves the machine
// disconnected and eligible for retry.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Disconnected {
		c.mu.Unlock()
		return nil
	}
	c.setStateLocked(Connecting)
	c.mu.Unlock()

	if err := c.probe.ScannerHealth(ctx); err != nil {
		c.transition(Disconnected)
		c.log.Warn().Err(err).Msg("scanner connection attempt failed")
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	c.transition(Connected)
	c.log.Info().Msg("scanner connected")
	return nil
}

// Disconnect moves the machine to disconnected from any state. It always
// succeeds.
func (c *Controller) Disconnect() {
	c.transition(Disconnected)
	c.log.Info().Msg("scanner disconnected")
}

func (c *Controller) transition(next State) {
	c.mu.Lock()
	c.setStateLocked(next)
	c.mu.Unlock()
}

// setStateLocked records the new state and notifies subscribers. Callbacks
// run inline; subscribers must not call back into the controller.
func (c *Controller) setStateLocked(next State) {
	if c.state == next {
		return
	}
	c.state = next
	for _, fn := range c.subs {
		fn(next)
	}
}
