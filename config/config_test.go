package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/canonmotion/gocanon/util"
)

func TestDefaultIsPopulated(t *testing.T) {
	c := Default()
	if c.Addr == "" {
		t.Error("Default().Addr should not be empty")
	}
	if c.NaivecamTolerance <= 0 {
		t.Error("Default().NaivecamTolerance should be positive")
	}
}

func TestLimiterForKnownAxis(t *testing.T) {
	c := Config{AxisLimitFallback: map[string]AxisLimitConfig{
		"X": {Velocity: 100, Acceleration: 50, Jerk: 25},
	}}
	got := c.LimiterFor("X")
	want := util.Limiter{Min: -100, Max: 100}
	if got != want {
		t.Errorf("LimiterFor(X) = %+v, want %+v", got, want)
	}
}

func TestLimiterForUnknownAxisFailsClosed(t *testing.T) {
	c := Config{AxisLimitFallback: map[string]AxisLimitConfig{}}
	got := c.LimiterFor("Q")
	if got != (util.Limiter{}) {
		t.Errorf("LimiterFor(unconfigured) = %+v, want the zero Limiter (accepts only 0)", got)
	}
}

// chdirTemp switches the working directory to a fresh temp dir for the
// duration of the test, restoring the original on cleanup. Load/WriteDefault
// both resolve configFileName relative to the working directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("os.Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("os.Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func TestLoadWithoutFileReturnsDefault(t *testing.T) {
	chdirTemp(t)
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for a missing config file", err)
	}
	if c.Addr != Default().Addr {
		t.Errorf("Load().Addr = %q, want the default %q", c.Addr, Default().Addr)
	}
}

func TestWriteDefaultThenLoadRoundTrips(t *testing.T) {
	dir := chdirTemp(t)
	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, configFileName)); err != nil {
		t.Fatalf("WriteDefault() did not create %s: %v", configFileName, err)
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.NaivecamTolerance != Default().NaivecamTolerance {
		t.Errorf("round-tripped NaivecamTolerance = %v, want %v", c.NaivecamTolerance, Default().NaivecamTolerance)
	}
}
