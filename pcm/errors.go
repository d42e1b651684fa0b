// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported sample format")
	ErrMisalignedBuffer  = errors.New("buffer length is not a multiple of the frame size")
	ErrInvalidChannels   = errors.New("channel count must be positive")
	ErrInvalidRate       = errors.New("sample rate must be positive")
	ErrShortBuffer       = errors.New("destination buffer too small")
)

// FormatError reports input that cannot be turned into canonical samples.
type FormatError struct {
	Format SampleFormat
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("pcm: format %s: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
