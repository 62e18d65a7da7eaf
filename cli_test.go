package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	f, err := parseFlags(nil)
	require.NoError(t, err)
	assert.False(t, f.headless)
	assert.Equal(t, 48000, f.sampleRate)
	assert.InDelta(t, 0.1, f.volume, 1e-9)
	assert.InDelta(t, 5.0, f.length, 1e-9)
}

func TestParseFlagsOverrides(t *testing.T) {
	f, err := parseFlags([]string{
		"--headless",
		"--output", "render.wav",
		"--rpm", "4000",
		"--sample-rate", "44100",
		"--length", "2",
	})
	require.NoError(t, err)
	assert.True(t, f.headless)
	assert.Equal(t, "render.wav", f.outputPath)
	assert.InDelta(t, 4000, f.rpm, 1e-9)
	assert.Equal(t, 44100, f.sampleRate)
	assert.InDelta(t, 2, f.length, 1e-9)
}

func TestParseFlagsRejectsInvalidSampleRate(t *testing.T) {
	_, err := parseFlags([]string{"--sample-rate", "0"})
	assert.Error(t, err)
}

func TestParseFlagsRejectsInvalidLength(t *testing.T) {
	_, err := parseFlags([]string{"--length", "-1"})
	assert.Error(t, err)
}

func TestApplyCrossfadeFadesEdgesOnly(t *testing.T) {
	buf := make([]float32, 1000)
	for i := range buf {
		buf[i] = 1
	}
	applyCrossfade(buf, 0.01, 48000) // 480 samples

	assert.InDelta(t, float32(0), buf[0], 1e-6)
	assert.InDelta(t, float32(0), buf[len(buf)-1], 1e-6)
	// Middle of the buffer, outside both fade windows, stays untouched.
	assert.Equal(t, float32(1), buf[500])
}

func TestApplyCrossfadeNoOpWhenTooLong(t *testing.T) {
	buf := make([]float32, 100)
	for i := range buf {
		buf[i] = 1
	}
	applyCrossfade(buf, 1.0, 48000) // would need 48000 samples on each side
	for _, s := range buf {
		assert.Equal(t, float32(1), s)
	}
}
