// Package forcesource streams scalar (pressure) or six-axis (force/torque)
// samples from an external sensor reader thread and exposes stability
// queries over a bounded history buffer.
package forcesource

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Axis selects one component of a six-axis force/torque reading.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisRx
	AxisRy
	AxisRz
)

// Sample is a single force/torque reading. Pressure sources only ever
// populate Z (or, equivalently, callers should read via AxisZ).
type Sample struct {
	Values [6]float64
}

const ringCapacity = 100

type ring struct {
	buf  [ringCapacity]Sample
	len  int
	next int
}

func (r *ring) push(s Sample) {
	r.buf[r.next] = s
	r.next = (r.next + 1) % ringCapacity
	if r.len < ringCapacity {
		r.len++
	}
}

func (r *ring) values(axis Axis) []float64 {
	out := make([]float64, r.len)
	for i := 0; i < r.len; i++ {
		idx := (r.next - r.len + i + ringCapacity) % ringCapacity
		out[i] = r.buf[idx].Values[axis]
	}
	return out
}

func (r *ring) latest() (Sample, bool) {
	if r.len == 0 {
		return Sample{}, false
	}
	idx := (r.next - 1 + ringCapacity) % ringCapacity
	return r.buf[idx], true
}

// Source is the Force Source interface: scalar pressure and six-axis
// force/torque variants both satisfy it.
type Source interface {
	// Latest returns the most recent buffered sample projected to one
	// axis, and whether any sample has been received yet.
	Latest(axis Axis) (float64, bool)
	// UpdateBuffer pulls any pending samples from the underlying
	// transport into the ring buffer.
	UpdateBuffer()
	// ForceChanged reports whether the rounded value differs from the
	// last value this method returned true for (dedup for telemetry).
	ForceChanged(value float64) bool
	// IsForceNearSetpoint reports whether the latest Z sample is within
	// tolerance of setpoint.
	IsForceNearSetpoint(setpoint float64) bool
	// IsForceStable reports whether the buffer's standard deviation is
	// under threshold and its mean is within tolerance of setpoint.
	IsForceStable(setpoint, zOffset float64) bool
	// IsForceZStable is the Z-axis-specific variant of IsForceStable.
	IsForceZStable(setpoint, zOffset float64) bool
	// Ready reports whether the underlying transport has produced at
	// least one sample.
	Ready() bool
}

// Reader is supplied by the external sensor transport: each call
// returns any newly available samples, or none if nothing is pending.
type Reader interface {
	Read() ([]Sample, error)
}

const (
	defaultForceTolerance    = 0.5  // newtons
	defaultPressureTolerance = 0.2  // kPa
	stabilityStdDevThreshold = 0.3
)

// buffered implements Source over a Reader and a 100-sample ring buffer,
// shared by the Pressure and SixAxis variants.
type buffered struct {
	reader    Reader
	ring      ring
	tolerance float64

	hasLastChanged bool
	lastChanged    float64
	ready          bool
}

// NewPressure returns a Force Source reading a single scalar axis (Z),
// with the default pressure tolerance (0.2 kPa).
func NewPressure(r Reader) Source {
	return &buffered{reader: r, tolerance: defaultPressureTolerance}
}

// NewSixAxis returns a Force Source reading the full six-axis force
// tensor, with the default force tolerance (0.5 N).
func NewSixAxis(r Reader) Source {
	return &buffered{reader: r, tolerance: defaultForceTolerance}
}

func (b *buffered) UpdateBuffer() {
	samples, err := b.reader.Read()
	if err != nil || len(samples) == 0 {
		return
	}
	for _, s := range samples {
		b.ring.push(s)
	}
	b.ready = true
}

func (b *buffered) Latest(axis Axis) (float64, bool) {
	s, ok := b.ring.latest()
	if !ok {
		return 0, false
	}
	return s.Values[axis], true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (b *buffered) ForceChanged(value float64) bool {
	rounded := round1(value)
	if b.hasLastChanged && rounded == b.lastChanged {
		return false
	}
	b.hasLastChanged = true
	b.lastChanged = rounded
	return true
}

func (b *buffered) IsForceNearSetpoint(setpoint float64) bool {
	v, ok := b.Latest(AxisZ)
	if !ok {
		return false
	}
	return math.Abs(v-setpoint) <= b.tolerance
}

func (b *buffered) IsForceStable(setpoint, zOffset float64) bool {
	return b.isAxisStable(AxisZ, setpoint+zOffset)
}

func (b *buffered) IsForceZStable(setpoint, zOffset float64) bool {
	return b.isAxisStable(AxisZ, setpoint+zOffset)
}

func (b *buffered) isAxisStable(axis Axis, setpoint float64) bool {
	values := b.ring.values(axis)
	if len(values) < 2 {
		return false
	}
	mean, std := stat.MeanStdDev(values, nil)
	return std < stabilityStdDevThreshold && math.Abs(mean-setpoint) <= b.tolerance
}

func (b *buffered) Ready() bool {
	return b.ready
}
