package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	healthFunc func(ctx context.Context) error
	calls      int
}

func (p *fakeProbe) ScannerHealth(ctx context.Context) error {
	p.calls++
	if p.healthFunc != nil {
		return p.healthFunc(ctx)
	}
	return nil
}

func TestController_ConnectSuccess(t *testing.T) {
	probe := &fakeProbe{}
	c := NewController(probe, zerolog.Nop())

	var seen []State
	c.Subscribe(func(s State) { seen = append(seen, s) })

	require.Equal(t, Disconnected, c.State())
	err := c.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Connected, c.State())
	assert.Equal(t, []State{Connecting, Connected}, seen)
}

func TestController_ConnectFailureReturnsToDisconnected(t *testing.T) {
	probe := &fakeProbe{healthFunc: func(ctx context.Context) error {
		return errors.New("dial tcp: connection refused")
	}}
	c := NewController(probe, zerolog.Nop())

	err := c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnectFailed)
	assert.Equal(t, Disconnected, c.State())

	// The failed attempt does not poison the machine: a retry can succeed.
	probe.healthFunc = nil
	err = c.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Connected, c.State())
}

func TestController_ConnectIdempotentWhileConnected(t *testing.T) {
	probe := &fakeProbe{}
	c := NewController(probe, zerolog.Nop())

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Connect(context.Background()))
	assert.Equal(t, 1, probe.calls, "second connect should not probe again")
	assert.Equal(t, Connected, c.State())
}

func TestController_DisconnectAlwaysSucceeds(t *testing.T) {
	c := NewController(&fakeProbe{}, zerolog.Nop())

	// From disconnected: stays disconnected, no subscriber noise.
	var seen []State
	c.Subscribe(func(s State) { seen = append(seen, s) })
	c.Disconnect()
	assert.Equal(t, Disconnected, c.State())
	assert.Empty(t, seen)

	require.NoError(t, c.Connect(context.Background()))
	c.Disconnect()
	assert.Equal(t, Disconnected, c.State())
}
