// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"

	"github.com/ik5/audmix/device"
)

var ErrNotOpen = errors.New("audiotest: no stream open")

// ManualDriver is a device.Driver whose callback only runs when Tick is
// called, which makes mixing deterministic in tests.
type ManualDriver struct {
	mu sync.Mutex

	// OpenErr and StartErr are returned, once each, by the next Open or
	// Start.
	OpenErr  error
	StartErr error

	cfg     device.StreamConfig
	cb      device.Callback
	opens   int
	started bool
	closed  bool
}

func NewManualDriver() *ManualDriver {
	return &ManualDriver{}
}

func (d *ManualDriver) Open(cfg device.StreamConfig, cb device.Callback) (device.Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.opens++
	if err := d.OpenErr; err != nil {
		d.OpenErr = nil
		return nil, err
	}
	d.cfg = cfg
	d.cb = cb
	d.started = false
	d.closed = false
	return &manualStream{d: d}, nil
}

// Opens counts Open calls, failed ones included.
func (d *ManualDriver) Opens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

func (d *ManualDriver) Config() device.StreamConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *ManualDriver) Started() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started && !d.closed
}

func (d *ManualDriver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Tick runs one period of frames frames and returns the encoded output.
func (d *ManualDriver) Tick(frames int) ([]byte, error) {
	d.mu.Lock()
	cb, cfg := d.cb, d.cfg
	live := d.started && !d.closed
	d.mu.Unlock()

	if cb == nil || !live {
		return nil, ErrNotOpen
	}
	out := make([]byte, frames*cfg.Canonical().BytesPerFrame())
	cb(out, frames)
	return out, nil
}

type manualStream struct {
	d *ManualDriver
}

func (s *manualStream) Start() error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if err := s.d.StartErr; err != nil {
		s.d.StartErr = nil
		return err
	}
	s.d.started = true
	return nil
}

func (s *manualStream) Close() error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	s.d.closed = true
	return nil
}
