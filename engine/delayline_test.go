package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelayLineFractionalLinearity(t *testing.T) {
	d := NewDelayLine(16)
	for i := 0; i < 20; i++ {
		d.Advance(float32(i))
	}

	// After 20 advances into a line with a bit of slack, SampleAt(2.25)
	// should linearly interpolate between the samples written 2 and 3
	// ticks ago.
	s2 := d.SampleAt(2)
	s3 := d.SampleAt(3)
	got := d.SampleAt(2.25)
	want := s2*(1-0.25) + s3*0.25
	assert.InDelta(t, want, got, 1e-5)
}

func TestDelayLineClear(t *testing.T) {
	d := NewDelayLine(8)
	for i := 0; i < 8; i++ {
		d.Advance(1)
	}
	d.Clear()
	assert.Equal(t, float32(0), d.SampleAt(1))
}

func TestDelayLineAdvanceWraps(t *testing.T) {
	d := NewDelayLine(4)
	cap := d.Capacity()
	for i := 0; i < cap*3; i++ {
		d.Advance(float32(i))
	}
	// No panic across multiple wraps, and the most recent few values
	// are still recoverable.
	last := float32(cap*3 - 1)
	assert.InDelta(t, last, d.SampleAt(0.0001), 1e-3)
}
