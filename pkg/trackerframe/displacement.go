package trackerframe

import "time"

// Displacement is a 6-scalar displacement-to-target, expressed in TCP
// frame under the canonical static-axis XYZ convention once ingress has
// run.
type Displacement struct {
	X, Y, Z    float64
	Rx, Ry, Rz float64
}

const displacementHistoryLen = 20

// DisplacementTracker records displacements that the caller has already
// passed through Ingress and alignment, keeps a freshness timestamp, and
// keeps the last 20 values to detect a frozen feed.
type DisplacementTracker struct {
	current   Displacement
	updatedAt time.Time
	hasValue  bool

	history    [displacementHistoryLen]Displacement
	historyLen int
	next       int
}

// NewDisplacementTracker returns an empty tracker.
func NewDisplacementTracker() *DisplacementTracker {
	return &DisplacementTracker{}
}

// Ingress applies the handedness sign flip (x, rx) to a raw displacement
// received from neuronavigation. rotating-frame XYZ input, rotation
// applied before translation — the flip reconciles handedness only;
// alignment re-expression happens separately (see pkg/alignment).
func Ingress(raw Displacement) Displacement {
	raw.X = -raw.X
	raw.Rx = -raw.Rx
	return raw
}

// Update records a new displacement (already ingress-flipped and
// alignment-corrected) as the current value, appending it to history.
func (d *DisplacementTracker) Update(disp Displacement, now time.Time) {
	d.current = disp
	d.updatedAt = now
	d.hasValue = true

	d.history[d.next] = disp
	d.next = (d.next + 1) % displacementHistoryLen
	if d.historyLen < displacementHistoryLen {
		d.historyLen++
	}
}

// Clear discards the current displacement value (keeps history intact).
func (d *DisplacementTracker) Clear() {
	d.hasValue = false
}

// Current returns the current displacement and whether one is set.
func (d *DisplacementTracker) Current() (Displacement, bool) {
	return d.current, d.hasValue
}

// Fresh reports whether the current displacement was updated within max
// age of now (the freshness gate, default 0.3s per the guard cascade).
func (d *DisplacementTracker) Fresh(now time.Time, maxAge time.Duration) bool {
	if !d.hasValue {
		return false
	}
	return now.Sub(d.updatedAt) < maxAge
}

// Frozen reports whether the history buffer is full and every entry is
// exactly equal (bit-for-bit, not within tolerance — preserving the
// source's exact-equality freeze detector).
func (d *DisplacementTracker) Frozen() bool {
	if d.historyLen < displacementHistoryLen {
		return false
	}
	first := d.history[0]
	for i := 1; i < displacementHistoryLen; i++ {
		if d.history[i] != first {
			return false
		}
	}
	return true
}
