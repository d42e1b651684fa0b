// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"
	"strings"
	"time"
)

// SampleFormat is the closed set of sample encodings the engine accepts.
type SampleFormat int

const (
	// Invalid is the zero value and is never accepted.
	Invalid SampleFormat = iota
	// Int16 is signed 16-bit little-endian.
	Int16
	// Float32 is IEEE-754 32-bit little-endian.
	Float32
)

// ParseSampleFormat maps configuration strings to a SampleFormat.
func ParseSampleFormat(s string) (SampleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int16", "s16", "s16le", "i16":
		return Int16, nil
	case "float32", "f32", "f32le", "float":
		return Float32, nil
	}
	return Invalid, &FormatError{Format: Invalid, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)}
}

// Valid reports whether f is a member of the enum.
func (f SampleFormat) Valid() bool {
	return f == Int16 || f == Float32
}

// BytesPerSample returns the encoded size of one sample, or 0 for an
// unrecognized format.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case Int16:
		return 2
	case Float32:
		return 4
	}
	return 0
}

func (f SampleFormat) String() string {
	switch f {
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// MarshalText lets SampleFormat appear as a string in YAML and logs.
func (f SampleFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText parses the strings accepted by ParseSampleFormat.
func (f *SampleFormat) UnmarshalText(b []byte) error {
	v, err := ParseSampleFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Canonical is the fixed configuration an engine mixes in and emits to the
// device: interleaved frames of Channels samples at SampleRate, encoded as
// Format on the way out.
type Canonical struct {
	Channels   int
	SampleRate int
	Format     SampleFormat
}

// Validate checks that c can drive a stream.
func (c Canonical) Validate() error {
	if !c.Format.Valid() {
		return &FormatError{Format: c.Format, Err: ErrUnsupportedFormat}
	}
	if c.Channels <= 0 {
		return &FormatError{Format: c.Format, Err: ErrInvalidChannels}
	}
	if c.SampleRate <= 0 {
		return &FormatError{Format: c.Format, Err: ErrInvalidRate}
	}
	return nil
}

// BytesPerFrame is the size of one encoded output frame.
func (c Canonical) BytesPerFrame() int {
	return c.Channels * c.Format.BytesPerSample()
}

// FramesIn returns how many whole frames fit in n encoded bytes.
func (c Canonical) FramesIn(n int) int {
	bpf := c.BytesPerFrame()
	if bpf == 0 {
		return 0
	}
	return n / bpf
}

// Duration returns the playback time of frames at c's sample rate.
func (c Canonical) Duration(frames int) time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// FramesInDuration returns how many frames play in d.
func (c Canonical) FramesInDuration(d time.Duration) int {
	return int(time.Duration(c.SampleRate) * d / time.Second)
}

func (c Canonical) String() string {
	return fmt.Sprintf("%s; rate=%d; channels=%d", c.Format, c.SampleRate, c.Channels)
}
