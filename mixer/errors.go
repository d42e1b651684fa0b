// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	ErrClosed       = errors.New("mixer: closed")
	ErrForeignTrack = errors.New("mixer: track belongs to another mixer")
	ErrNoDriver     = errors.New("mixer: no device driver")
)
