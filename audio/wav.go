package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVWriter is a Sink that renders engine output to a 16-bit PCM mono
// WAV file instead of a live device, for the headless render mode
// described in SPEC_FULL.md §6.2.
type WAVWriter struct {
	file     *os.File
	enc      *wav.Encoder
	pull     func(buf []float32)
	chunk    []float32
	intBuf   *audio.IntBuffer
	started  bool
}

const wavChunkSamples = 4096

// NewWAVWriter creates path and prepares a mono, 16-bit PCM WAV encoder
// at sampleRate. Call RenderSeconds (or repeated WriteChunk calls) to
// fill it, then Close to flush the header and finalize the file.
func NewWAVWriter(path string, sampleRate int) (*WAVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("audio: creating %s: %w", path, err)
	}
	const bitDepth = 16
	const numChannels = 1
	enc := wav.NewEncoder(f, sampleRate, bitDepth, numChannels, 1)

	return &WAVWriter{
		file:  f,
		enc:   enc,
		chunk: make([]float32, wavChunkSamples),
		intBuf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
			Data:   make([]int, wavChunkSamples),
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func (w *WAVWriter) SetSource(pull func(buf []float32)) { w.pull = pull }
func (w *WAVWriter) Start() error                       { w.started = true; return nil }
func (w *WAVWriter) Stop()                              { w.started = false }

// Close flushes the WAV header/trailer and closes the underlying file.
// The samples themselves are written earlier, by WriteChunk (which
// RenderSeconds calls); Close only finalizes the header sizes.
func (w *WAVWriter) Close() error {
	if err := w.enc.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("audio: finalizing wav encoder: %w", err)
	}
	return w.file.Close()
}

// WriteChunk pulls exactly len(buf) samples from the installed source,
// converts them to 16-bit PCM, and appends them to the file. buf is
// reused as scratch space by the caller between calls.
func (w *WAVWriter) WriteChunk(buf []float32) error {
	w.pull(buf)
	ib := w.intBuf
	if cap(ib.Data) < len(buf) {
		ib.Data = make([]int, len(buf))
	}
	ib.Data = ib.Data[:len(buf)]
	for i, s := range buf {
		ib.Data[i] = floatToPCM16(s)
	}
	if err := w.enc.Write(ib); err != nil {
		return fmt.Errorf("audio: writing wav samples: %w", err)
	}
	return nil
}

// RenderSeconds renders seconds worth of audio at the encoder's sample
// rate in fixed-size chunks, used by the CLI's headless render mode.
func (w *WAVWriter) RenderSeconds(seconds float64, sampleRate int) error {
	total := int(seconds * float64(sampleRate))
	remaining := total
	for remaining > 0 {
		n := wavChunkSamples
		if n > remaining {
			n = remaining
		}
		if err := w.WriteChunk(w.chunk[:n]); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}

func floatToPCM16(s float32) int {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int(math.Round(float64(s) * 32767))
}
