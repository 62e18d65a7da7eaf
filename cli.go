package main

import (
	"fmt"

	"github.com/spf13/pflag"
)

// cliFlags is the parsed command-line surface described in
// SPEC_FULL.md §6.3.
type cliFlags struct {
	headless   bool
	configPath string
	outputPath string
	rpm        float64
	sampleRate int
	volume     float64
	length     float64
	warmup     float64
	crossfade  float64
	logLevel   string
}

func parseFlags(args []string) (*cliFlags, error) {
	fs := pflag.NewFlagSet("enginesound", pflag.ContinueOnError)

	f := &cliFlags{}
	fs.BoolVar(&f.headless, "headless", false, "render to a WAV file instead of opening the interactive GUI")
	fs.StringVar(&f.configPath, "config", "", "path to a preset YAML file (defaults to a factory idle preset)")
	fs.StringVar(&f.outputPath, "output", "out.wav", "output WAV path for --headless")
	fs.Float64Var(&f.rpm, "rpm", 0, "override the preset's rpm (0 = use preset value)")
	fs.IntVar(&f.sampleRate, "sample-rate", 48000, "output sample rate in Hz")
	fs.Float64Var(&f.volume, "volume", 0.1, "master volume, applied on top of the preset's bus volumes")
	fs.Float64Var(&f.length, "length", 5, "seconds to render in --headless mode")
	fs.Float64Var(&f.warmup, "warmup", 0.25, "seconds to run before recording/playing, letting resonances settle")
	fs.Float64Var(&f.crossfade, "crossfade", 0, "seconds of linear crossfade applied to the rendered file's start/end")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.sampleRate <= 0 {
		return nil, fmt.Errorf("--sample-rate must be > 0")
	}
	if f.length <= 0 {
		return nil, fmt.Errorf("--length must be > 0")
	}
	return f, nil
}
