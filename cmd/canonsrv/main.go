// Command canonsrv is the canonical motion front-end's HTTP server: it
// holds a canon.Engine and serves its query interface and axis
// introspection routes over HTTP, following cmd/multiserver's own command
// dispatch shape.  No route dispatches motion or auxiliary commands into
// the Engine.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/theckman/yacspin"

	"github.com/canonmotion/gocanon/axisconfig"
	"github.com/canonmotion/gocanon/canon"
	"github.com/canonmotion/gocanon/config"
	"github.com/canonmotion/gocanon/externalstatus"
	"github.com/canonmotion/gocanon/httpapi"
)

// Version is the build version, typically injected via ldflags.
var Version = "dev"

func root() {
	str := `canonsrv translates canonical motion commands (as emitted by a
G-code interpreter) into trajectory messages for a downstream executor.

Usage:
	canonsrv <command>

Commands:
	run
	stream
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `canonsrv is configured via canonsrv.yml in the working directory.
Run "mkconf" to write out the default configuration, "conf" to print the
configuration currently in effect, and "run" to start the HTTP server.`
	fmt.Println(str)
}

func mkconf() {
	if err := config.WriteDefault(); err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.Print(c)
}

func pversion() {
	fmt.Printf("canonsrv version %v\n", Version)
}

// buildEngine wires an Engine and its collaborators from c, falling back
// to a constant-limit stand-in when AxisConfigAddr is unset (local
// testing without an axis configuration service on the bench).
func buildEngine(c config.Config) (*canon.Engine, canon.LimitSource, *axisconfig.Client) {
	var limits canon.LimitSource
	var ac *axisconfig.Client
	if c.AxisConfigAddr != "" {
		ac = axisconfig.NewTCP(c.AxisConfigAddr, c.DialTimeoutSecs)
		limits = ac
	} else {
		limits = stubLimits{c}
	}

	opts := []canon.Option{canon.WithLimitSource(limits)}
	if c.StatusAddr != "" {
		opts = append(opts, canon.WithExternalStatus(externalstatus.New(c.StatusAddr, c.DialTimeoutSecs)))
	}
	e := canon.NewEngine(opts...)
	e.SetNaivecamTolerance(c.NaivecamTolerance)
	e.SetMotionTolerance(c.MotionTolerance)
	if c.ProbeLogPath != "" {
		if err := e.OpenProbeLog(c.ProbeLogPath); err != nil {
			log.Println("warning: could not open probe log:", err)
		}
	}
	return e, limits, ac
}

// stubLimits answers every axis query from config.Config's
// AxisLimitFallback table (velocity through config.Config.LimiterFor's Max
// field, acceleration and jerk directly), for exercising canonsrv without
// a live axis configuration service.
type stubLimits struct{ c config.Config }

var axisLetters = [...]string{"X", "Y", "Z", "A", "B", "C", "U", "V", "W"}

func (s stubLimits) letterFor(axis int) string {
	if axis < 0 || axis >= len(axisLetters) {
		return ""
	}
	return axisLetters[axis]
}

func (s stubLimits) MaxVelocity(axis int) (float64, error) {
	return s.c.LimiterFor(s.letterFor(axis)).Max, nil
}

func (s stubLimits) MaxAcceleration(axis int) (float64, error) {
	return s.c.AxisLimitFallback[s.letterFor(axis)].Acceleration, nil
}

func (s stubLimits) MaxJerk(axis int) (float64, error) {
	return s.c.AxisLimitFallback[s.letterFor(axis)].Jerk, nil
}

func run() {
	c, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	e, limits, ac := buildEngine(c)

	var raw httpapi.RawCommunicator
	if ac != nil {
		raw = ac
	}
	mux := httpapi.New(e, limits, raw)

	color.Cyan("canonsrv listening at %s", c.Addr)
	log.Fatal(http.ListenAndServe(c.Addr, mux))
}

// stream runs a small spinner against the configured axis configuration
// service's connection pool, a quick bench-side liveness check before
// starting "run" for real.
func stream() {
	c, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if c.AxisConfigAddr == "" {
		log.Fatal("stream requires AxisConfigAddr to be set in canonsrv.yml")
	}

	cfg := yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		Suffix:          " polling axis configuration service",
		SuffixAutoColon: true,
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	}
	spinner, err := yacspin.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	_ = spinner.Start()

	ac := axisconfig.NewTCP(c.AxisConfigAddr, c.DialTimeoutSecs)
	mask, err := ac.Refresh()
	if err != nil {
		_ = spinner.StopFail()
		log.Fatal(err)
	}
	spinner.StopMessage(fmt.Sprintf("axis mask %09b", mask))
	_ = spinner.Stop()
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	cmd := strings.ToLower(args[1])
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "run":
		run()
	case "stream":
		stream()
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
