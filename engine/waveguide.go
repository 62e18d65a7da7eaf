package engine

// WaveguideSegment models a lossy 1-D acoustic pipe as a bidirectional
// pair of delay lines: chamber0 carries the wave traveling toward the
// closed/valved end, chamber1 carries the return toward the open end.
// alpha is the reflection coefficient at the closed end, beta at the
// open end.
type WaveguideSegment struct {
	chamber0 *DelayLine
	chamber1 *DelayLine
	alpha    float32
	beta     float32

	delaySamples0 float64
	delaySamples1 float64

	x0, x1 float32 // most recent Pop() outputs, held between Pop and Update
}

// NewWaveguideSegment builds a segment from two delay lengths (in
// samples) and the two terminal reflection coefficients.
func NewWaveguideSegment(delaySamples0, delaySamples1 float64, alpha, beta float32) *WaveguideSegment {
	return &WaveguideSegment{
		chamber0:      NewDelayLine(delaySamples0),
		chamber1:      NewDelayLine(delaySamples1),
		alpha:         alpha,
		beta:          beta,
		delaySamples0: delaySamples0,
		delaySamples1: delaySamples1,
	}
}

// Pop returns the two outputs of the segment: the wave having
// traversed chamber0, and the wave having traversed chamber1. Callers
// read these before supplying new injections via Update.
func (w *WaveguideSegment) Pop() (x0, x1 float32) {
	w.x0 = w.chamber0.SampleAt(w.delaySamples0)
	w.x1 = w.chamber1.SampleAt(w.delaySamples1)
	return w.x0, w.x1
}

// Update injects newX0 and newX1 at both ends, combining each with a
// reflection of the tail of the opposite direction, and advances both
// chambers exactly one sample.
func (w *WaveguideSegment) Update(newX0, newX1 float32) {
	w.chamber0.Advance(newX0 + w.alpha*w.x1)
	w.chamber1.Advance(newX1 + w.beta*w.x0)
}

// Reset zeros both chambers.
func (w *WaveguideSegment) Reset() {
	w.chamber0.Clear()
	w.chamber1.Clear()
	w.x0, w.x1 = 0, 0
}

// SetReflections updates alpha/beta without touching buffer state, so
// a live parameter edit never clicks from a buffer clear.
func (w *WaveguideSegment) SetReflections(alpha, beta float32) {
	w.alpha, w.beta = alpha, beta
}
