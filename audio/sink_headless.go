//go:build headless

package audio

// DeviceSink is the headless stand-in for the live device sink: it
// accepts a source and never plays it, so headless builds (render-to-
// WAV, CI, machines with no audio device) never link oto.
type DeviceSink struct {
	pull    func(buf []float32)
	started bool
}

func NewDeviceSink(sampleRate int) (*DeviceSink, error) {
	return &DeviceSink{}, nil
}

func (s *DeviceSink) SetSource(pull func(buf []float32)) { s.pull = pull }
func (s *DeviceSink) Start() error                       { s.started = true; return nil }
func (s *DeviceSink) Stop()                              { s.started = false }
func (s *DeviceSink) Close() error                        { s.started = false; return nil }
