//go:build !headless

package audio

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// DeviceSink plays engine output through the system's default audio
// device via oto. The pull callback is stored behind an atomic pointer
// so the real-time Read callback never takes a lock on its hot path.
type DeviceSink struct {
	ctx       *oto.Context
	player    *oto.Player
	pull      atomic.Pointer[func([]float32)]
	sampleBuf []float32
	started   bool
	mutex     sync.Mutex
}

// NewDeviceSink opens an oto context at sampleRate, mono, 32-bit float.
func NewDeviceSink(sampleRate int) (*DeviceSink, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	return &DeviceSink{ctx: ctx}, nil
}

func (s *DeviceSink) SetSource(pull func(buf []float32)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pull.Store(&pull)
	if s.player == nil {
		s.player = s.ctx.NewPlayer(s)
		s.sampleBuf = make([]float32, 4096)
	}
}

// Read implements io.Reader for oto.Player, filling p with samples
// pulled from the installed source.
func (s *DeviceSink) Read(p []byte) (n int, err error) {
	pull := s.pull.Load()
	if pull == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 4
	if len(s.sampleBuf) < numSamples {
		s.sampleBuf = make([]float32, numSamples)
	}
	samples := s.sampleBuf[:numSamples]
	(*pull)(samples)

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:len(p)])
	return len(p), nil
}

func (s *DeviceSink) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started && s.player != nil {
		s.player.Play()
		s.started = true
	}
	return nil
}

func (s *DeviceSink) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started && s.player != nil {
		s.player.Pause()
		s.started = false
	}
}

func (s *DeviceSink) Close() error {
	s.Stop()
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.player != nil {
		err := s.player.Close()
		s.player = nil
		return err
	}
	return nil
}
