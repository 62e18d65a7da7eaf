// Command enginesound renders or plays a physically-modeled combustion
// engine, driven by a YAML preset.
package main

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/DasEtwas/enginesound/audio"
	"github.com/DasEtwas/enginesound/engine"
	"github.com/DasEtwas/enginesound/gui"
	"github.com/DasEtwas/enginesound/preset"
)

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := log.New(os.Stderr)
	logger.SetLevel(parseLogLevel(flags.logLevel))

	p, err := loadPreset(flags)
	if err != nil {
		logger.Fatal("loading preset", "err", err)
	}
	if flags.rpm > 0 {
		p.RPM = flags.rpm
	}

	e, err := engine.NewEngine(p, float64(flags.sampleRate))
	if err != nil {
		logger.Fatal("constructing engine", "err", err)
	}
	if err := e.SetParameter("master_volume", flags.volume); err != nil {
		logger.Fatal("setting master_volume", "err", err)
	}

	warmupSamples := int(flags.warmup * float64(flags.sampleRate))
	if warmupSamples > 0 {
		scratch := make([]float32, warmupSamples)
		e.Pull(scratch)
		logger.Debug("warmup complete", "samples", warmupSamples)
	}

	if flags.headless {
		if err := renderHeadless(e, flags, logger); err != nil {
			logger.Fatal("rendering", "err", err)
		}
		return
	}

	if err := runInteractive(e, p, flags, logger); err != nil {
		logger.Fatal("interactive session", "err", err)
	}
}

func loadPreset(flags *cliFlags) (engine.Preset, error) {
	if flags.configPath != "" {
		return preset.Load(flags.configPath)
	}
	return preset.LoadFactory("idle-four-cylinder")
}

func parseLogLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// renderHeadless pulls flags.length seconds from e into an in-memory
// buffer, applies the requested crossfade, and writes it out as WAV.
func renderHeadless(e *engine.Engine, flags *cliFlags, logger *log.Logger) error {
	total := int(flags.length * float64(flags.sampleRate))
	buf := make([]float32, total)
	e.Pull(buf)

	applyCrossfade(buf, flags.crossfade, flags.sampleRate)

	if n := e.UnstableSampleCount(); n > 0 {
		logger.Warn("engine reported sustained out-of-range samples during render", "events", n)
	}

	w, err := audio.NewWAVWriter(flags.outputPath, flags.sampleRate)
	if err != nil {
		return err
	}
	w.SetSource(func(dst []float32) { copy(dst, buf[:len(dst)]); buf = buf[len(dst):] })
	if err := w.RenderSeconds(flags.length, flags.sampleRate); err != nil {
		w.Close()
		return err
	}
	logger.Info("rendered", "path", flags.outputPath, "seconds", flags.length)
	return w.Close()
}

func applyCrossfade(buf []float32, seconds float64, sampleRate int) {
	n := int(seconds * float64(sampleRate))
	if n <= 0 || 2*n > len(buf) {
		return
	}
	for i := 0; i < n; i++ {
		g := float32(i) / float32(n)
		buf[i] *= g
		buf[len(buf)-1-i] *= g
	}
}

// runInteractive drives the live-device + GUI mode. The running engine
// sits behind an atomic pointer, mirroring the teacher's lock-free
// audio-callback pattern: the Read/Pull hot path never takes a lock,
// and a Rebuild (triggered here by pasting a structurally different
// preset into the GUI) swaps the pointer without blocking it.
func runInteractive(e *engine.Engine, initial engine.Preset, flags *cliFlags, logger *log.Logger) error {
	sink, err := audio.NewDeviceSink(flags.sampleRate)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	defer sink.Close()

	var live atomic.Pointer[engine.Engine]
	live.Store(e)
	var activePreset atomic.Pointer[engine.Preset]
	activePreset.Store(&initial)

	surface := gui.NewEngineSurface(
		func() engine.Preset { return *activePreset.Load() },
		func(path string, value float64) bool { return live.Load().QueueParameter(path, value) },
	)
	surface.OnRebuildRequest(func(p engine.Preset) {
		rebuilt, err := live.Load().Rebuild(p)
		if err != nil {
			logger.Warn("rejected pasted preset", "err", err)
			return
		}
		live.Store(rebuilt)
		activePreset.Store(&p)
		logger.Info("rebuilt engine from pasted preset")
	})

	sink.SetSource(func(buf []float32) {
		live.Load().Pull(buf)
		for i, s := range buf {
			if math.IsNaN(float64(s)) {
				buf[i] = 0
			}
		}
		surface.PushSamples(buf)
	})
	if err := sink.Start(); err != nil {
		return fmt.Errorf("starting audio device: %w", err)
	}

	if err := surface.Initialize(900, 420, "enginesound"); err != nil {
		return err
	}
	logger.Info("running interactively", "rpm", initial.RPM)
	return surface.Show()
}
