package engine

import "fmt"

// validatePreset implements the ConfigInvalid checks from
// SPEC_FULL.md §7: raised only at Rebuild/preset-load time, never
// during Pull.
func validatePreset(p Preset) error {
	if p.RPM <= 0 {
		return configInvalid("rpm", "must be > 0")
	}
	if len(p.Cylinders) == 0 {
		return configInvalid("cylinders", "must contain at least one cylinder")
	}
	for i, c := range p.Cylinders {
		prefix := fmt.Sprintf("cylinders[%d]", i)
		if c.CrankOffset < 0 || c.CrankOffset >= 1 {
			return configInvalid(prefix+".crank_offset", "must be in [0,1)")
		}
		if c.IgnitionTime < 0 || c.IgnitionTime >= 1 {
			return configInvalid(prefix+".ignition_time", "must be in [0,1)")
		}
		if err := validateReflection(prefix+".intake_open_refl", c.IntakeOpenRefl); err != nil {
			return err
		}
		if err := validateReflection(prefix+".intake_closed_refl", c.IntakeClosedRefl); err != nil {
			return err
		}
		if err := validateReflection(prefix+".exhaust_open_refl", c.ExhaustOpenRefl); err != nil {
			return err
		}
		if err := validateReflection(prefix+".exhaust_closed_refl", c.ExhaustClosedRefl); err != nil {
			return err
		}
		if err := validateWaveguide(prefix+".intake_waveguide", c.IntakeWaveguide); err != nil {
			return err
		}
		if err := validateWaveguide(prefix+".exhaust_waveguide", c.ExhaustWaveguide); err != nil {
			return err
		}
		if err := validateWaveguide(prefix+".extractor_waveguide", c.ExtractorWaveguide); err != nil {
			return err
		}
	}
	if err := validateWaveguide("muffler.straight_pipe", p.Muffler.StraightPipe); err != nil {
		return err
	}
	for i, el := range p.Muffler.MufflerElements {
		if err := validateWaveguide(fmt.Sprintf("muffler.muffler_elements[%d]", i), el); err != nil {
			return err
		}
	}
	return nil
}

func validateReflection(field string, v float64) error {
	if v < -1 || v > 1 {
		return configInvalid(field, "reflection coefficient must be in [-1,1]")
	}
	return nil
}

// maxDelaySeconds bounds a single waveguide chamber's delay so a
// malformed or malicious preset can't make Rebuild allocate an
// unbounded ring buffer; this is the CapacityExceeded guard described
// in SPEC_FULL.md §7 (caught at rebuild, never mid-Pull).
const maxDelaySeconds = 5.0

func validateWaveguide(field string, wg WaveguidePreset) error {
	if wg.Chamber0.Samples.Delay <= 0 {
		return configInvalid(field+".chamber0.samples.delay", "must be > 0")
	}
	if wg.Chamber1.Samples.Delay <= 0 {
		return configInvalid(field+".chamber1.samples.delay", "must be > 0")
	}
	if wg.Chamber0.Samples.Delay > maxDelaySeconds {
		return &CapacityExceeded{Field: field + ".chamber0.samples.delay", Requested: wg.Chamber0.Samples.Delay, Capacity: maxDelaySeconds}
	}
	if wg.Chamber1.Samples.Delay > maxDelaySeconds {
		return &CapacityExceeded{Field: field + ".chamber1.samples.delay", Requested: wg.Chamber1.Samples.Delay, Capacity: maxDelaySeconds}
	}
	if err := validateReflection(field+".alpha", wg.Alpha); err != nil {
		return err
	}
	if err := validateReflection(field+".beta", wg.Beta); err != nil {
		return err
	}
	return nil
}
