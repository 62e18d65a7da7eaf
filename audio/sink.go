// Package audio carries engine output to a live device or a file.
package audio

// Sink consumes float32 mono samples produced by an engine.Engine.Pull
// call. Start/Stop/Close bracket a live device's lifecycle; a file sink
// treats Start/Stop as no-ops, writes samples in its own render calls,
// and finalizes the file in Close.
type Sink interface {
	// SetSource installs the function Sink calls to fill its buffers.
	// pull must behave like engine.Engine.Pull: fill buf completely,
	// never block past a bounded amount of work, never panic.
	SetSource(pull func(buf []float32))
	Start() error
	Stop()
	Close() error
}
