// Package config loads cmd/canonsrv's YAML configuration via koanf, the
// way cmd/multiserver/main.go loads its own, with structs.Provider
// supplying defaults before the on-disk file (if any) is merged in.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"

	yml "github.com/go-yaml/yaml"

	"github.com/canonmotion/gocanon/util"
)

// AxisLimitConfig is the on-disk representation of one axis's kinematic
// limits, mirroring cmd/multiserver's Args.Limits map shape.
type AxisLimitConfig struct {
	Velocity     float64 `yaml:"Velocity"`
	Acceleration float64 `yaml:"Acceleration"`
	Jerk         float64 `yaml:"Jerk"`
}

// Config is cmd/canonsrv's top-level configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"Addr"`

	// AxisConfigAddr is the address of the external axis configuration
	// service (axisconfig.Client).
	AxisConfigAddr string `yaml:"AxisConfigAddr"`

	// AxisConfigSerial is stored and written out with the configuration,
	// but cmd/canonsrv does not read it: it always dials AxisConfigAddr
	// over TCP.
	AxisConfigSerial bool `yaml:"AxisConfigSerial"`

	// StatusAddr is the address of the status-reporting service
	// (externalstatus.Client).
	StatusAddr string `yaml:"StatusAddr"`

	// DialTimeoutSecs bounds how long dialing AxisConfigAddr or StatusAddr
	// may take before the connection attempt fails, zero selects each
	// client's own default.
	DialTimeoutSecs float64 `yaml:"DialTimeoutSecs"`

	// NaivecamTolerance is the default collinear-fusion tolerance applied
	// at INIT_CANON, internal length units.
	NaivecamTolerance float64 `yaml:"NaivecamTolerance"`

	// MotionTolerance is the default blend tolerance passed to
	// canon.Engine.SetMotionTolerance (carried in SetTermCond messages).
	MotionTolerance float64 `yaml:"MotionTolerance"`

	// ProbeLogPath, if non-empty, is opened as the probe log at startup
	// instead of waiting for a PROBEOPEN hot-comment.
	ProbeLogPath string `yaml:"ProbeLogPath"`

	// AxisLimitFallback supplies a limit triple per axis letter (X, Y, Z,
	// A, B, C, U, V, W), used when AxisConfigAddr is empty so canonsrv can
	// run against a constant-limit stand-in for local testing.
	AxisLimitFallback map[string]AxisLimitConfig `yaml:"AxisLimitFallback"`
}

// Default returns the zero-value-safe default configuration: a
// conservative 0.01mm naive-cam tolerance, no probe log, listening on port
// 8080 on all interfaces.
func Default() Config {
	return Config{
		Addr:              ":8080",
		NaivecamTolerance: 0.01,
		MotionTolerance:   0.01,
	}
}

// LimiterFor converts AxisLimitFallback[letter] into a util.Limiter over
// [-Velocity, Velocity], returning the zero Limiter ([0, 0], which
// util.Limiter.Check accepts only 0 against) when letter is absent, so an
// unconfigured axis fails closed.
func (c Config) LimiterFor(letter string) util.Limiter {
	if lim, ok := c.AxisLimitFallback[letter]; ok {
		return util.Limiter{Min: -lim.Velocity, Max: lim.Velocity}
	}
	return util.Limiter{}
}

const configFileName = "canonsrv.yml"

// koanfInstance is shared across Load/Unmarshal/Write the same way
// cmd/multiserver/main.go shares its package-level `k`.
var koanfInstance = koanf.New(".")

// Load reads configFileName relative to the working directory, merging it
// over Default(); a missing file is not an error.
func Load() (Config, error) {
	if err := koanfInstance.Load(structs.Provider(Default(), "yaml"), nil); err != nil {
		return Config{}, err
	}
	if err := koanfInstance.Load(file.Provider(configFileName), yaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such") {
			return Config{}, err
		}
	}
	var c Config
	if err := koanfInstance.Unmarshal("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// WriteDefault writes Default() to configFileName, for the "mkconf" CLI
// subcommand.
func WriteDefault() error {
	f, err := os.Create(configFileName)
	if err != nil {
		return err
	}
	defer f.Close()
	return yml.NewEncoder(f).Encode(Default())
}

// Print writes the currently loaded configuration to stdout as YAML, for
// the "conf" CLI subcommand.
func Print(c Config) {
	if err := yml.NewEncoder(os.Stdout).Encode(c); err != nil {
		log.Println("error encoding configuration:", err)
	}
}
