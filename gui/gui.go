//go:build !headless

// Package gui is the interactive control surface: an oscilloscope view
// of the last pulled buffer, a key-help line and the last error,
// keyboard-driven parameter nudges, and clipboard copy/paste of the
// active preset.
package gui

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/DasEtwas/enginesound/engine"
	"github.com/DasEtwas/enginesound/preset"
)

// Surface is the control-surface abstraction generalized from the
// teacher's GUIFrontend: Initialize/Show/Close bracket the window's
// lifecycle, SendEvent carries user intent out to the driver.
type Surface interface {
	Initialize(width, height int, title string) error
	Show() error
	Close() error
	SendEvent(event Event) error
}

// EventType enumerates the user intents a Surface can emit.
type EventType int

const (
	EventQuit EventType = iota
	EventParameterChange
	EventClipboardCopyPreset
	EventClipboardPastePreset
)

// Event is one action originating from user input.
type Event struct {
	Type  EventType
	Path  string
	Value float64
}

const (
	windowWidth  = 900
	windowHeight = 420
	scopeHeight  = 240
)

// nudges maps a key to the (parameter path, per-press delta) it
// controls. Arrow keys are reserved for rpm; letter keys for the three
// bus volumes and the noise/fluctuation factors.
var nudges = map[ebiten.Key]struct {
	path  string
	delta float64
}{
	ebiten.KeyArrowUp:    {"rpm", 100},
	ebiten.KeyArrowDown:  {"rpm", -100},
	ebiten.KeyQ:          {"intake_volume", 0.02},
	ebiten.KeyA:          {"intake_volume", -0.02},
	ebiten.KeyW:          {"exhaust_volume", 0.02},
	ebiten.KeyS:          {"exhaust_volume", -0.02},
	ebiten.KeyE:          {"engine_vibrations_volume", 0.02},
	ebiten.KeyD:          {"engine_vibrations_volume", -0.02},
	ebiten.KeyR:          {"master_volume", 0.02},
	ebiten.KeyF:          {"master_volume", -0.02},
	ebiten.KeyT:          {"intake_noise_factor", 0.01},
	ebiten.KeyG:          {"intake_noise_factor", -0.01},
	ebiten.KeyY:          {"crankshaft_fluctuation", 0.005},
	ebiten.KeyH:          {"crankshaft_fluctuation", -0.005},
}

// EngineSurface is the ebiten-backed Surface. It owns no audio
// itself — it reads the last pulled buffer from a shared, mutex-guarded
// scope buffer that the driver copies samples into after each Pull, and
// posts parameter nudges back to the engine via QueueParameter.
type EngineSurface struct {
	width, height int
	title         string
	running       bool

	mu            sync.RWMutex
	scope         []float32
	lastErr       error
	clipboardOK   bool
	clipboardInit sync.Once

	currentPreset func() engine.Preset
	queue         func(path string, value float64) bool
	onRebuild     func(engine.Preset)
}

// NewEngineSurface builds a Surface bound to the given engine accessors.
// currentPreset returns a snapshot Preset for clipboard-copy; queue
// posts a parameter change (normally engine.Engine.QueueParameter).
func NewEngineSurface(currentPreset func() engine.Preset, queue func(path string, value float64) bool) *EngineSurface {
	return &EngineSurface{
		width:         windowWidth,
		height:        windowHeight,
		scope:         make([]float32, windowWidth),
		currentPreset: currentPreset,
		queue:         queue,
	}
}

func (s *EngineSurface) Initialize(width, height int, title string) error {
	s.width, s.height, s.title = width, height, title
	return nil
}

func (s *EngineSurface) Show() error {
	ebiten.SetWindowSize(s.width, s.height)
	ebiten.SetWindowTitle(s.title)
	ebiten.SetWindowResizable(true)
	s.running = true
	return ebiten.RunGame(s)
}

func (s *EngineSurface) Close() error {
	s.running = false
	return nil
}

// OnRebuildRequest registers the callback invoked when the user pastes
// a structurally different preset (cylinder count, waveguide delays)
// that this surface cannot apply itself via QueueParameter. The driver
// is expected to call engine.Engine.Rebuild and hot-swap the result.
func (s *EngineSurface) OnRebuildRequest(fn func(engine.Preset)) {
	s.mu.Lock()
	s.onRebuild = fn
	s.mu.Unlock()
}

func (s *EngineSurface) SendEvent(event Event) error {
	switch event.Type {
	case EventParameterChange:
		s.queue(event.Path, event.Value)
	}
	return nil
}

// PushSamples copies the most recent pulled buffer in for the scope
// view. Safe to call from the audio callback goroutine.
func (s *EngineSurface) PushSamples(buf []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.scope)
	if len(buf) >= n {
		copy(s.scope, buf[len(buf)-n:])
	} else {
		copy(s.scope, s.scope[len(buf):])
		copy(s.scope[n-len(buf):], buf)
	}
}

func (s *EngineSurface) Update() error {
	if !s.running {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() {
		s.running = false
		return ebiten.Termination
	}

	for key, n := range nudges {
		if ebiten.IsKeyPressed(key) && inpututil.KeyPressDuration(key)%6 == 1 {
			s.queue(n.path, s.currentValueHint(n.path)+n.delta)
		}
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		s.copyPresetToClipboard()
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		s.pastePresetFromClipboard()
	}
	return nil
}

// currentValueHint is a deliberately crude "what's the value now"
// source for additive nudges: the GUI doesn't track authoritative
// engine state (the mailbox is one-way), so it replays nudges against
// the preset snapshot rather than reading the live engine.
func (s *EngineSurface) currentValueHint(path string) float64 {
	p := s.currentPreset()
	switch path {
	case "rpm":
		return p.RPM
	case "intake_volume":
		return p.IntakeVolume
	case "exhaust_volume":
		return p.ExhaustVolume
	case "engine_vibrations_volume":
		return p.VibrationsVolume
	case "intake_noise_factor":
		return p.IntakeNoiseFactor
	case "crankshaft_fluctuation":
		return p.CrankshaftFluctuation
	default:
		return 0
	}
}

func (s *EngineSurface) copyPresetToClipboard() {
	s.clipboardInit.Do(func() { s.clipboardOK = clipboard.Init() == nil })
	if !s.clipboardOK {
		return
	}
	text, err := preset.Marshal(s.currentPreset())
	if err != nil {
		s.setError(err)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
}

func (s *EngineSurface) pastePresetFromClipboard() {
	s.clipboardInit.Do(func() { s.clipboardOK = clipboard.Init() == nil })
	if !s.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	p, err := preset.Unmarshal(string(data))
	if err != nil {
		s.setError(err)
		return
	}
	// Structural changes from a pasted preset require a Rebuild; the
	// GUI cannot perform that itself (it only holds a QueueParameter
	// func), so it hands the parsed preset to the driver's callback.
	s.mu.RLock()
	onRebuild := s.onRebuild
	s.mu.RUnlock()
	if onRebuild != nil {
		onRebuild(p)
	}
	s.setError(nil)
}

func (s *EngineSurface) setError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *EngineSurface) Draw(screen *ebiten.Image) {
	s.mu.RLock()
	scope := append([]float32(nil), s.scope...)
	errText := ""
	if s.lastErr != nil {
		errText = s.lastErr.Error()
	}
	s.mu.RUnlock()

	mid := float32(scopeHeight / 2)
	for x := 1; x < len(scope); x++ {
		y0 := mid - scope[x-1]*mid
		y1 := mid - scope[x]*mid
		ebitenutil.DrawLine(screen, float64(x-1), float64(y0), float64(x), float64(y1), color.RGBA{0, 220, 120, 255})
	}

	help := "arrows: rpm  qa/ws/ed/rf/tg/yh: volumes+noise+fluctuation  ctrl+c/v: copy/paste preset"
	ebitenutil.DebugPrintAt(screen, help, 4, scopeHeight+4)
	if errText != "" {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("error: %s", errText), 4, scopeHeight+20)
	}
}

func (s *EngineSurface) Layout(_, _ int) (int, int) {
	return s.width, s.height
}
