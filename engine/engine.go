package engine

import "math"

// Engine is the crankshaft + ignition scheduler: it advances a
// normalized crank phase, dispatches per-sample work to each
// cylinder, mixes the three bus signals, applies master volume and DC
// removal, and exposes the Pull sample-generation interface. Engine
// owns every Cylinder, the Muffler, and every filter; no mutable
// state inside the core is shared between Engine instances.
type Engine struct {
	sampleRate         float64
	oversample         int
	internalSampleRate float64

	rpmTarget  float64
	rpmCurrent float64
	rpmSmooth  *LowPassFilter

	phase float64 // crank phase in [0,1)

	intakeVolume     float32
	exhaustVolume    float32
	vibrationsVolume float32
	masterVolume     float32

	intakeNoiseFactor float64
	intakeNoiseLP     *LowPassFilter
	intakeNoiseRNG    *xorshift32

	vibrationFilter *LowPassFilter

	intakeValveShift  float64
	exhaustValveShift float64

	crankshaftFluctuation   float64
	crankshaftFluctuationLP *LowPassFilter
	crankshaftRNG           *xorshift32

	cylinders []*Cylinder
	muffler   *Muffler

	dcPrev   float32
	dcHPPrev float32

	unstableRun   int
	unstableTotal uint64

	mailbox *Mailbox
}

const dcRemovalCoefficient = 0.995
const unstableRunThreshold = 64 // consecutive out-of-range samples before counting an event

// The crank phase is wrapped into [0,1) by frac, defined in cylinder.go.

// NewEngine constructs a runnable Engine from a validated Preset and a
// sample rate. Structural fields (cylinder count, waveguide delays)
// are fixed for the lifetime of the returned Engine; use Rebuild to
// replace it wholesale when they change.
func NewEngine(p Preset, sampleRate float64) (*Engine, error) {
	if err := validatePreset(p); err != nil {
		return nil, err
	}

	oversample := p.Oversample
	if oversample < 1 {
		oversample = 1
	}
	internalRate := sampleRate * float64(oversample)

	e := &Engine{
		sampleRate:              sampleRate,
		oversample:               oversample,
		internalSampleRate:       internalRate,
		rpmTarget:                p.RPM,
		rpmCurrent:               p.RPM,
		rpmSmooth:                NewLowPassFilter(0.05, internalRate),
		intakeVolume:             float32(p.IntakeVolume),
		exhaustVolume:            float32(p.ExhaustVolume),
		vibrationsVolume:         float32(p.VibrationsVolume),
		masterVolume:             0.1,
		intakeNoiseFactor:        p.IntakeNoiseFactor,
		intakeNoiseLP:            NewLowPassFilter(p.IntakeNoiseLP.Delay, internalRate),
		intakeNoiseRNG:           newXorshift32(0xA5A5A5A5),
		vibrationFilter:          NewLowPassFilter(p.VibrationFilter.Delay, internalRate),
		intakeValveShift:         p.IntakeValveShift,
		exhaustValveShift:        p.ExhaustValveShift,
		crankshaftFluctuation:    p.CrankshaftFluctuation,
		crankshaftFluctuationLP:  NewLowPassFilter(p.CrankshaftFluctuationLP.Delay, internalRate),
		crankshaftRNG:            newXorshift32(0xC3A5C3A5),
		mailbox:                  NewMailbox(64),
	}

	for i, cp := range p.Cylinders {
		seed := uint32(0xD1CE0001 + i*0x9E3779B1)
		intakeWG := buildWaveguide(cp.IntakeWaveguide, internalRate)
		exhaustWG := buildWaveguide(cp.ExhaustWaveguide, internalRate)
		extractorWG := buildWaveguide(cp.ExtractorWaveguide, internalRate)
		cyl := NewCylinder(cp.CrankOffset, intakeWG, exhaustWG, extractorWG,
			cp.IntakeOpenRefl, cp.IntakeClosedRefl, cp.ExhaustOpenRefl, cp.ExhaustClosedRefl,
			cp.PistonMotionFactor, cp.IgnitionFactor, cp.IgnitionTime, seed)
		e.cylinders = append(e.cylinders, cyl)
	}

	straightPipe := buildWaveguide(p.Muffler.StraightPipe, internalRate)
	elements := make([]*WaveguideSegment, 0, len(p.Muffler.MufflerElements))
	for _, wg := range p.Muffler.MufflerElements {
		elements = append(elements, buildWaveguide(wg, internalRate))
	}
	e.muffler = NewMuffler(straightPipe, elements)

	return e, nil
}

func buildWaveguide(wg WaveguidePreset, sampleRate float64) *WaveguideSegment {
	d0 := wg.Chamber0.Samples.Delay * sampleRate
	d1 := wg.Chamber1.Samples.Delay * sampleRate
	return NewWaveguideSegment(d0, d1, float32(wg.Alpha), float32(wg.Beta))
}

// Rebuild constructs a fresh Engine from preset, validating it first.
// On validation failure the returned error is a *ConfigInvalid (or
// *CapacityExceeded for an over-large delay) and the caller's existing
// Engine is untouched — it is the caller's responsibility to keep
// using the previous instance and not swap in a nil Engine.
func (e *Engine) Rebuild(p Preset) (*Engine, error) {
	return NewEngine(p, e.sampleRate)
}

// SetParameter updates a single scalar, non-structural parameter.
// The structural paths "cylinders", "muffler" and "oversample" return
// ErrStructuralParameter; any other path not listed here, including
// per-cylinder and waveguide fields, returns ErrUnknownParameter.
// Callers change structural fields through Rebuild.
func (e *Engine) SetParameter(path string, value float64) error {
	switch path {
	case "rpm":
		e.rpmTarget = value
	case "intake_volume":
		e.intakeVolume = float32(value)
	case "exhaust_volume":
		e.exhaustVolume = float32(value)
	case "engine_vibrations_volume":
		e.vibrationsVolume = float32(value)
	case "master_volume":
		e.masterVolume = float32(value)
	case "intake_noise_factor":
		e.intakeNoiseFactor = value
	case "intake_valve_shift":
		e.intakeValveShift = value
	case "exhaust_valve_shift":
		e.exhaustValveShift = value
	case "crankshaft_fluctuation":
		e.crankshaftFluctuation = value
	case "cylinders", "muffler", "oversample":
		return ErrStructuralParameter
	default:
		return ErrUnknownParameter
	}
	return nil
}

// QueueParameter posts a parameter change to the engine's mailbox for
// the audio thread to drain at the top of the next Pull. Safe to call
// from any goroutine.
func (e *Engine) QueueParameter(path string, value float64) bool {
	return e.mailbox.Post(ParameterChange{Path: path, Value: value})
}

// ResetSampler zeros all filter/waveguide state; the running crank
// phase is retained.
func (e *Engine) ResetSampler() {
	e.rpmCurrent = e.rpmTarget
	e.rpmSmooth.Reset()
	e.intakeNoiseLP.Reset()
	e.vibrationFilter.Reset()
	e.crankshaftFluctuationLP.Reset()
	e.dcPrev, e.dcHPPrev = 0, 0
	e.unstableRun = 0
	e.unstableTotal = 0
	for _, c := range e.cylinders {
		c.Reset()
	}
	e.muffler.Reset()
}

// UnstableSampleCount returns the number of ArithmeticUnstable events
// (runs of unstableRunThreshold consecutive out-of-range samples)
// observed since construction or the last ResetSampler.
func (e *Engine) UnstableSampleCount() uint64 {
	return e.unstableTotal
}

// Pull fills buffer with len(buffer) successive samples. Pull is
// infallible, non-blocking, and allocates nothing; it drains pending
// mailbox parameter changes once at the start of the call.
func (e *Engine) Pull(buffer []float32) {
	e.drainMailbox()
	if e.oversample <= 1 {
		for i := range buffer {
			buffer[i] = e.step()
		}
		return
	}
	// Oversampled path: run the inner loop at sampleRate x oversample
	// and decimate with a boxcar average, per SPEC_FULL.md's
	// Oversampling design note.
	for i := range buffer {
		var sum float32
		for j := 0; j < e.oversample; j++ {
			sum += e.step()
		}
		buffer[i] = sum / float32(e.oversample)
	}
}

func (e *Engine) drainMailbox() {
	for {
		change, ok := e.mailbox.Take()
		if !ok {
			return
		}
		_ = e.SetParameter(change.Path, change.Value)
	}
}

func (e *Engine) step() float32 {
	e.rpmCurrent = float64(e.rpmSmooth.Process(float32(e.rpmTarget)))

	omega := e.rpmCurrent / 60
	if e.crankshaftFluctuation != 0 {
		noise := e.crankshaftRNG.signed()
		shaped := e.crankshaftFluctuationLP.Process(noise)
		omega += float64(shaped) * e.crankshaftFluctuation
	}
	e.phase = frac(e.phase + omega/e.internalSampleRate*0.5)

	var intakeSum, exhaustSum, vibrationSum float32
	for _, c := range e.cylinders {
		c.Step(e.phase, e.intakeValveShift, e.exhaustValveShift)
		in, ex, vib := c.Outputs()
		intakeSum += in
		exhaustSum += ex
		vibrationSum += vib
	}

	if e.intakeNoiseFactor != 0 {
		noise := e.intakeNoiseRNG.signed()
		shaped := e.intakeNoiseLP.Process(noise)
		intakeSum += shaped * float32(e.intakeNoiseFactor)
	}

	exhaustMixed := e.muffler.Process(exhaustSum)
	vibrationMixed := e.vibrationFilter.Process(vibrationSum)

	y := intakeSum*e.intakeVolume + exhaustMixed*e.exhaustVolume + vibrationMixed*e.vibrationsVolume
	y *= e.masterVolume

	hp := y - e.dcPrev + dcRemovalCoefficient*e.dcHPPrev
	e.dcPrev = y
	e.dcHPPrev = hp

	out := saturate(hp)
	e.trackStability(hp)
	return out
}

func (e *Engine) trackStability(raw float32) {
	if raw > 1 || raw < -1 {
		e.unstableRun++
		if e.unstableRun == unstableRunThreshold {
			e.unstableTotal++
		}
	} else {
		e.unstableRun = 0
	}
}

// saturate is a tanh-like soft clip protecting downstream equipment
// without the harsh spectral artifacts of a hard clamp.
func saturate(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}
