package engine

import "math"

// valveEdgeWidth is the half-width, in cycle fraction, of the
// raised-cosine ramp applied at each edge of a valve's open window.
// See SPEC_FULL.md §9 "Open questions resolved".
const valveEdgeWidth = 0.015

// Cylinder is a piston pressure model gated by intake/exhaust valves,
// driving an intake waveguide, an exhaust waveguide, and an extractor
// waveguide, with ignition pulses and piston mechanical noise.
type Cylinder struct {
	crankOffset float64

	intake    *WaveguideSegment
	exhaust   *WaveguideSegment
	extractor *WaveguideSegment

	intakeOpenRefl    float32
	intakeClosedRefl  float32
	exhaustOpenRefl   float32
	exhaustClosedRefl float32

	pistonMotionFactor float32
	ignitionFactor     float32
	ignitionTime       float64

	rng     *xorshift32
	rngSeed uint32

	// exported bus contributions for the most recent Step call
	intakeOut     float32
	exhaustOut    float32
	vibrationOut  float32
}

// NewCylinder builds a cylinder from its already-sample-converted
// waveguide delays and its preset scalars.
func NewCylinder(crankOffset float64,
	intake, exhaust, extractor *WaveguideSegment,
	intakeOpenRefl, intakeClosedRefl, exhaustOpenRefl, exhaustClosedRefl float64,
	pistonMotionFactor, ignitionFactor, ignitionTime float64,
	rngSeed uint32,
) *Cylinder {
	return &Cylinder{
		crankOffset:        crankOffset,
		intake:             intake,
		exhaust:            exhaust,
		extractor:          extractor,
		intakeOpenRefl:     float32(intakeOpenRefl),
		intakeClosedRefl:   float32(intakeClosedRefl),
		exhaustOpenRefl:    float32(exhaustOpenRefl),
		exhaustClosedRefl:  float32(exhaustClosedRefl),
		pistonMotionFactor: float32(pistonMotionFactor),
		ignitionFactor:     float32(ignitionFactor),
		ignitionTime:       ignitionTime,
		rng:                newXorshift32(rngSeed),
		rngSeed:            rngSeed,
	}
}

// frac returns x - floor(x), wrapped into [0, 1).
func frac(x float64) float64 {
	f := x - math.Floor(x)
	if f < 0 {
		f += 1
	}
	if f >= 1 {
		// x - floor(x) rounds up to 1 for tiny negative x.
		f = 0
	}
	return f
}

// raisedCosineEdge maps a signed distance (in cycle fraction) from a
// window edge into a smooth [0,1] ramp: 0 well outside the window,
// 1 well inside, raised-cosine across +/- valveEdgeWidth of the edge.
func raisedCosineEdge(distanceInside float64) float32 {
	switch {
	case distanceInside <= -valveEdgeWidth:
		return 0
	case distanceInside >= valveEdgeWidth:
		return 1
	default:
		x := (distanceInside + valveEdgeWidth) / (2 * valveEdgeWidth)
		return float32(0.5 - 0.5*math.Cos(math.Pi*x))
	}
}

// valveGate returns the smooth open-fraction in [0,1] of a valve whose
// hard window is [open, close) within a unit cycle, evaluated at phase.
func valveGate(phase, open, close float64) float32 {
	phase = frac(phase)
	open = frac(open)
	close = frac(close)

	// Distance of phase inside the window, positive = inside.
	var distOpen, distClose float64
	if open <= close {
		if phase >= open && phase < close {
			distOpen = phase - open
			distClose = close - phase
		} else if phase < open {
			distOpen = phase - open // negative
			distClose = 1 // far from close edge, forced closed below
			if phase+1-close < open-phase {
				distOpen, distClose = 1, close-1-phase // nearer the wrapped close edge
			}
		} else {
			distOpen = 1
			distClose = close - phase // negative
			if open+1-phase < phase-close {
				distOpen, distClose = phase-open-1, 1 // nearer the wrapped open edge
			}
		}
	} else {
		// window wraps past 1.0
		if phase >= open || phase < close {
			if phase >= open {
				distOpen = phase - open
			} else {
				distOpen = phase + (1 - open)
			}
			if phase < close {
				distClose = close - phase
			} else {
				distClose = close + (1 - phase)
			}
		} else {
			distOpen, distClose = 1, close-phase // negative
			if open-phase < phase-close {
				distOpen, distClose = phase-open, 1 // nearer the open edge
			}
		}
	}

	gOpen := raisedCosineEdge(distOpen)
	gClose := raisedCosineEdge(distClose)
	if gOpen < gClose {
		return gOpen
	}
	return gClose
}

// pistonPressure is a deterministic near-sinusoidal function of the
// cylinder's local phase approximating cylinder pressure across the
// 4-stroke cycle, peaking at the ignition point and decaying through
// the power stroke.
func pistonPressure(phaseCyl, ignitionTime float64) float32 {
	d := frac(phaseCyl - ignitionTime)
	// Sharp rise at ignition, smooth decay across the rest of the cycle:
	// a half-cosine lobe covering 40% of the cycle after ignition.
	const lobe = 0.4
	if d >= lobe {
		return 0
	}
	return float32(math.Cos(d / lobe * math.Pi / 2))
}

// Step advances the cylinder by one sample given the engine's crank
// phase and the current valve-shift offsets. It reads no external state
// beyond its arguments; the results are available from Outputs.
func (c *Cylinder) Step(enginePhase, intakeShift, exhaustShift float64) {
	phaseCyl := frac(enginePhase + c.crankOffset)

	// 4-stroke windows over the two-revolution (phase in [0,1)) cycle:
	// intake ~[0, .25), exhaust ~[.5, .75).
	intakeGate := valveGate(phaseCyl+intakeShift, 0.0, 0.25)
	exhaustGate := valveGate(phaseCyl+exhaustShift, 0.5, 0.75)

	pressure := pistonPressure(phaseCyl, c.ignitionTime) * c.ignitionFactor

	pistonMotion := float32(math.Sin(2*math.Pi*phaseCyl)) * c.pistonMotionFactor
	noise := c.rng.signed() * c.pistonMotionFactor * 0.05
	c.vibrationOut = pressure + pistonMotion + noise

	// x0 = cylinder (closed/valved) side, x1 = outside (open/atmosphere) side.
	_, in1 := c.intake.Pop()
	intakeRefl := c.intakeClosedRefl + (c.intakeOpenRefl-c.intakeClosedRefl)*intakeGate
	c.intake.Update(pressure*(1-intakeGate)+intakeRefl*in1, 0)

	_, ex1 := c.exhaust.Pop()
	exhaustRefl := c.exhaustClosedRefl + (c.exhaustOpenRefl-c.exhaustClosedRefl)*exhaustGate
	c.exhaust.Update(pressure*(1-exhaustGate)+exhaustRefl*ex1, 0)

	_, extOut1 := c.extractor.Pop()
	c.extractor.Update(ex1, 0)

	c.intakeOut = in1
	c.exhaustOut = extOut1
}

// Outputs returns the three bus contributions computed by the most
// recent Step call.
func (c *Cylinder) Outputs() (intake, exhaust, vibration float32) {
	return c.intakeOut, c.exhaustOut, c.vibrationOut
}

// Reset clears all three waveguides and re-seeds the RNG with its
// original, reproducible seed.
func (c *Cylinder) Reset() {
	c.intake.Reset()
	c.exhaust.Reset()
	c.extractor.Reset()
	c.rng.reset(c.rngSeed)
	c.intakeOut, c.exhaustOut, c.vibrationOut = 0, 0, 0
}
