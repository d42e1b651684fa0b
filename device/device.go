// SPDX-License-Identifier: EPL-2.0

// Package device defines what the mixer needs from an audio output: a
// driver that opens a stream and calls back once per period, and a
// selector that resolves an optional device name to a concrete device.
//
// Backends live in sub-packages: malgo and oto for hardware output and
// wavfile for rendering to disk.
package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/audmix/pcm"
)

var ErrNoDevice = errors.New("no matching output device")

// Callback fills out with frames encoded frames. It must return within one
// period and always write the whole buffer.
type Callback func(out []byte, frames int)

// Info identifies an output device.
type Info struct {
	Name    string
	Default bool
	// ID is backend specific and opaque to callers.
	ID any
}

func (i Info) String() string {
	if i.Default {
		return i.Name + " (default)"
	}
	return i.Name
}

// StreamConfig describes the stream a Driver opens. A nil Device selects
// the backend's default output.
type StreamConfig struct {
	Device       *Info
	SampleRate   int
	Channels     int
	Format       pcm.SampleFormat
	PeriodFrames int
}

// Canonical returns the output format described by c.
func (c StreamConfig) Canonical() pcm.Canonical {
	return pcm.Canonical{Channels: c.Channels, SampleRate: c.SampleRate, Format: c.Format}
}

// Driver opens output streams that invoke a Callback periodically.
type Driver interface {
	Open(cfg StreamConfig, cb Callback) (Stream, error)
}

// Stream is an opened output. Close stops playback and releases the
// device; it is safe to call more than once.
type Stream interface {
	Start() error
	Close() error
}

// Selector enumerates output devices and resolves name fragments.
type Selector interface {
	Devices() ([]Info, error)
	Lookup(fragment string) (*Info, error)
}

// FindByName implements Selector.Lookup over a device list. An empty
// fragment selects the default device, or the first one when none is
// flagged. Otherwise the first device whose name contains the fragment,
// ignoring case, wins.
func FindByName(list []Info, fragment string) (*Info, error) {
	if len(list) == 0 {
		return nil, ErrNoDevice
	}

	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		for i := range list {
			if list[i].Default {
				return &list[i], nil
			}
		}
		return &list[0], nil
	}

	for i := range list {
		if strings.Contains(strings.ToLower(list[i].Name), fragment) {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoDevice, fragment)
}

// DeviceError reports a failure to open or drive an output stream.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device: %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Wrap returns err as a *DeviceError for op, leaving nil and existing
// DeviceErrors untouched.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DeviceError
	if errors.As(err, &de) {
		return err
	}
	return &DeviceError{Op: op, Err: err}
}
