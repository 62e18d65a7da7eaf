//go:build headless

package gui

import "github.com/DasEtwas/enginesound/engine"

// Surface is the control-surface abstraction; the headless build never
// opens a window, so EngineSurface's methods are no-ops.
type Surface interface {
	Initialize(width, height int, title string) error
	Show() error
	Close() error
	SendEvent(event Event) error
}

type EventType int

const (
	EventQuit EventType = iota
	EventParameterChange
	EventClipboardCopyPreset
	EventClipboardPastePreset
)

type Event struct {
	Type  EventType
	Path  string
	Value float64
}

// EngineSurface is the headless stand-in: it accepts samples and
// parameter hooks but never renders anything.
type EngineSurface struct{}

func NewEngineSurface(currentPreset func() engine.Preset, queue func(path string, value float64) bool) *EngineSurface {
	return &EngineSurface{}
}

func (s *EngineSurface) Initialize(width, height int, title string) error { return nil }
func (s *EngineSurface) Show() error                                      { return nil }
func (s *EngineSurface) Close() error                                     { return nil }
func (s *EngineSurface) SendEvent(event Event) error                      { return nil }
func (s *EngineSurface) PushSamples(buf []float32)                        {}
func (s *EngineSurface) OnRebuildRequest(fn func(engine.Preset))          {}
