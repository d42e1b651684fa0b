// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"log/slog"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/device"
)

// Option configures a Mixer.
type Option interface {
	apply(*Mixer)
}

type loggerOption struct {
	log *slog.Logger
}

func (o loggerOption) apply(m *Mixer) {
	if o.log != nil {
		m.log = o.log
	}
}

// WithLogger sets the logger for lifecycle events. Defaults to
// slog.Default().
func WithLogger(log *slog.Logger) Option {
	return loggerOption{log: log}
}

type resampleOption struct {
	method audio.Method
}

func (o resampleOption) apply(m *Mixer) {
	m.method = o.method
}

// WithResampleMethod selects the rate converter used by writes. Defaults to
// audio.MethodFFT.
func WithResampleMethod(method audio.Method) Option {
	return resampleOption{method: method}
}

type mixFuncOption struct {
	fn MixFunc
}

func (o mixFuncOption) apply(m *Mixer) {
	if o.fn != nil {
		m.mix = o.fn
	}
}

// WithMixFunc replaces the per-source accumulation step. Defaults to Sum.
func WithMixFunc(fn MixFunc) Option {
	return mixFuncOption{fn: fn}
}

type deviceOption struct {
	name string
	sel  device.Selector
}

func (o deviceOption) apply(m *Mixer) {
	m.deviceName = o.name
	m.selector = o.sel
}

// WithDevice resolves the output device through sel when the stream is
// opened. An empty name selects the default device.
func WithDevice(name string, sel device.Selector) Option {
	return deviceOption{name: name, sel: sel}
}

type periodOption struct {
	frames int
}

func (o periodOption) apply(m *Mixer) {
	if o.frames > 0 {
		m.periodFrames = o.frames
	}
}

const defaultPeriodFrames = 512

// WithPeriodFrames sets the callback period requested from the driver.
// Defaults to 512 frames.
func WithPeriodFrames(frames int) Option {
	return periodOption{frames: frames}
}

type onDrainedOption struct {
	fn func(TrackID)
}

func (o onDrainedOption) apply(m *Mixer) {
	m.onDrained = o.fn
}

// WithOnSourceDrained sets a callback run after a mixing pass for every
// track whose queue it emptied. It runs on the device callback goroutine
// outside the registry lock and must return quickly.
func WithOnSourceDrained(fn func(TrackID)) Option {
	return onDrainedOption{fn: fn}
}

// TrackOption configures a Track.
type TrackOption interface {
	apply(*Track)
}

type trackLabelOption struct {
	label string
}

func (o trackLabelOption) apply(t *Track) {
	t.label = o.label
}

// WithTrackLabel sets a label for the track, used in logs.
func WithTrackLabel(label string) TrackOption {
	return trackLabelOption{label: label}
}
