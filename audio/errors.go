// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidRate    = errors.New("sample rate must be positive")
	ErrInvalidMethod  = errors.New("unknown resample method")
	ErrChannels       = errors.New("channel count must be positive")
	ErrMisaligned     = errors.New("sample count is not a multiple of the channel count")
	ErrUnknownFormat  = errors.New("no decoder registered for extension")
)
