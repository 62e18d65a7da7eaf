package engine

func testWaveguide(delay0, delay1, alpha, beta float64) WaveguidePreset {
	return WaveguidePreset{
		Chamber0: ChamberPreset{Samples: FilterPreset{Delay: delay0}},
		Chamber1: ChamberPreset{Samples: FilterPreset{Delay: delay1}},
		Alpha:    alpha,
		Beta:     beta,
	}
}

func testCylinder(crankOffset, ignitionTime float64) CylinderPreset {
	return CylinderPreset{
		CrankOffset:        crankOffset,
		IntakeWaveguide:    testWaveguide(0.001, 0.001, -0.1, -0.1),
		ExhaustWaveguide:   testWaveguide(0.0015, 0.0015, -0.2, -0.2),
		ExtractorWaveguide: testWaveguide(0.002, 0.002, -0.3, 0.3),
		IntakeOpenRefl:     -0.9,
		IntakeClosedRefl:   0.9,
		ExhaustOpenRefl:    -0.9,
		ExhaustClosedRefl:  0.9,
		PistonMotionFactor: 0.05,
		IgnitionFactor:     1.0,
		IgnitionTime:       ignitionTime,
	}
}

// testPreset builds a minimal, valid multi-cylinder preset for unit
// tests. nCylinders evenly spaces crank_offset around the cycle.
func testPreset(nCylinders int, rpm float64) Preset {
	cyls := make([]CylinderPreset, nCylinders)
	for i := 0; i < nCylinders; i++ {
		cyls[i] = testCylinder(float64(i)/float64(nCylinders), 0.55)
	}
	return Preset{
		RPM:               rpm,
		IntakeVolume:       0.3,
		ExhaustVolume:      0.5,
		VibrationsVolume:   0.2,
		Cylinders:          cyls,
		IntakeNoiseFactor:  0,
		IntakeNoiseLP:      FilterPreset{Delay: 0.001},
		VibrationFilter:    FilterPreset{Delay: 0.002},
		Muffler: MufflerPreset{
			StraightPipe: testWaveguide(0.003, 0.003, -0.2, -0.2),
			MufflerElements: []WaveguidePreset{
				testWaveguide(0.0008, 0.0008, -0.4, -0.4),
				testWaveguide(0.0012, 0.0012, -0.4, -0.4),
			},
		},
		IntakeValveShift:        0,
		ExhaustValveShift:       0,
		CrankshaftFluctuation:   0,
		CrankshaftFluctuationLP: FilterPreset{Delay: 0.01},
		Oversample:              1,
	}
}

// silentPreset is testPreset with every excitation factor zeroed, for
// the "silent idle" invariant.
func silentPreset(nCylinders int, rpm float64) Preset {
	p := testPreset(nCylinders, rpm)
	for i := range p.Cylinders {
		p.Cylinders[i].IgnitionFactor = 0
		p.Cylinders[i].PistonMotionFactor = 0
	}
	p.IntakeNoiseFactor = 0
	p.CrankshaftFluctuation = 0
	return p
}
