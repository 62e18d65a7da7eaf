package engine

// Preset is the fully-formed, already-validated parameter record the
// core accepts at Rebuild time. Time-valued fields are expressed in
// seconds, as they are in the textual (YAML) schema the preset
// package decodes; Rebuild is the only place seconds are converted to
// sample counts. The yaml tags are inert metadata here (the core
// package never imports an encoder) but keep this struct the single
// source of truth for the on-disk schema described in SPEC_FULL.md §6.1.
type Preset struct {
	RPM                     float64           `yaml:"rpm"`
	IntakeVolume            float64           `yaml:"intake_volume"`
	ExhaustVolume           float64           `yaml:"exhaust_volume"`
	VibrationsVolume        float64           `yaml:"engine_vibrations_volume"`
	Cylinders               []CylinderPreset  `yaml:"cylinders"`
	IntakeNoiseFactor       float64           `yaml:"intake_noise_factor"`
	IntakeNoiseLP           FilterPreset      `yaml:"intake_noise_lp"`
	VibrationFilter         FilterPreset      `yaml:"engine_vibration_filter"`
	Muffler                 MufflerPreset     `yaml:"muffler"`
	IntakeValveShift        float64           `yaml:"intake_valve_shift"`
	ExhaustValveShift       float64           `yaml:"exhaust_valve_shift"`
	CrankshaftFluctuation   float64           `yaml:"crankshaft_fluctuation"`
	CrankshaftFluctuationLP FilterPreset      `yaml:"crankshaft_fluctuation_lp"`
	Oversample              int               `yaml:"oversample"`
}

// CylinderPreset is one entry of Preset.Cylinders.
type CylinderPreset struct {
	CrankOffset        float64        `yaml:"crank_offset"`
	ExhaustWaveguide   WaveguidePreset `yaml:"exhaust_waveguide"`
	IntakeWaveguide    WaveguidePreset `yaml:"intake_waveguide"`
	ExtractorWaveguide WaveguidePreset `yaml:"extractor_waveguide"`
	IntakeOpenRefl     float64        `yaml:"intake_open_refl"`
	IntakeClosedRefl   float64        `yaml:"intake_closed_refl"`
	ExhaustOpenRefl    float64        `yaml:"exhaust_open_refl"`
	ExhaustClosedRefl  float64        `yaml:"exhaust_closed_refl"`
	PistonMotionFactor float64        `yaml:"piston_motion_factor"`
	IgnitionFactor     float64        `yaml:"ignition_factor"`
	IgnitionTime       float64        `yaml:"ignition_time"`
}

// FilterPreset is a single-pole low-pass's time constant in seconds.
type FilterPreset struct {
	Delay float64 `yaml:"delay"`
}

// ChamberPreset is one delay line of a WaveguidePreset.
type ChamberPreset struct {
	Samples FilterPreset `yaml:"samples"`
}

// WaveguidePreset is the on-disk record for a WaveguideSegment.
type WaveguidePreset struct {
	Chamber0 ChamberPreset `yaml:"chamber0"`
	Chamber1 ChamberPreset `yaml:"chamber1"`
	Alpha    float64       `yaml:"alpha"`
	Beta     float64       `yaml:"beta"`
}

// MufflerPreset is the on-disk record for the Muffler.
type MufflerPreset struct {
	StraightPipe    WaveguidePreset   `yaml:"straight_pipe"`
	MufflerElements []WaveguidePreset `yaml:"muffler_elements"`
}
