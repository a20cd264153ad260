// Package config loads run options and builds the default shader device.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/attila-gpu/attila-sim-sub005/isa"
	"github.com/attila-gpu/attila-sim-sub005/translator"
)

// Options configures translation and execution of one shader.
type Options struct {
	AlphaFunc string     `yaml:"alpha_func"`
	AlphaRef  float32    `yaml:"alpha_ref"`
	Fog       bool       `yaml:"fog"`
	FogColor  [4]float32 `yaml:"fog_color"`

	JumpThreshold int  `yaml:"jump_threshold"`
	Disassemble   bool `yaml:"disassemble"`

	Lanes   int     `yaml:"lanes"`
	FreqGHz float64 `yaml:"freq_ghz"`

	Lint bool `yaml:"lint"`
	Dump bool `yaml:"dump"`
}

// Default returns the options used when no file is given.
func Default() Options {
	return Options{
		AlphaFunc:     isa.AlphaDisabled.String(),
		JumpThreshold: translator.DefaultJumpThreshold,
		Lanes:         4,
		FreqGHz:       1,
		Lint:          true,
	}
}

// Load reads YAML options on top of the defaults.
func Load(r io.Reader) (Options, error) {
	o := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("config: %w", err)
	}

	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// LoadFile reads YAML options from a file.
func LoadFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()

	return Load(f)
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if _, err := isa.ParseAlphaFunc(o.AlphaFunc); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if o.JumpThreshold < 1 {
		return fmt.Errorf("config: jump_threshold %d must be positive", o.JumpThreshold)
	}
	if o.Lanes < 1 {
		return fmt.Errorf("config: lanes %d must be positive", o.Lanes)
	}
	if o.FreqGHz <= 0 {
		return fmt.Errorf("config: freq_ghz %g must be positive", o.FreqGHz)
	}
	return nil
}

// Translation returns the per-program translation options.
func (o Options) Translation() translator.Options {
	f, err := isa.ParseAlphaFunc(o.AlphaFunc)
	if err != nil {
		panic(err)
	}
	return translator.Options{AlphaFunc: f, Fog: o.Fog}
}

// Translator returns a builder for translators with these options.
func (o Options) Translator() translator.Builder {
	return translator.NewBuilder().
		WithJumpThreshold(o.JumpThreshold).
		WithDisassembly(o.Disassemble)
}
