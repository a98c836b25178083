package canon

import (
	"bufio"
	"fmt"
	"os"

	"github.com/canonmotion/gocanon/mathx"
)

// probeLogResolution is the unit the probed pose is rounded to before the
// changed-sample comparison and before it is written, so that sub-micron
// jitter in repeated position queries does not spam the log with
// effectively-duplicate lines.
const probeLogResolution = 1e-6

// probeLog is the text file opened on the PROBEOPEN <path> hot-comment and
// closed on PROBECLOSE (§6).  One line is written per *changed* probed
// sample: nine space-separated doubles in program units, newline
// terminated.  Exclusive to this core; nothing else touches the handle.
type probeLog struct {
	f    *os.File
	w    *bufio.Writer
	path string

	last    Pose
	hasLast bool
}

// IsOpen reports whether a probe log file is currently open.
func (p *probeLog) IsOpen() bool {
	return p.f != nil
}

// Open opens (creating if needed, appending if present) the file at path
// for probe logging.  Opening a second file while one is already open
// closes the first.
func (p *probeLog) Open(path string) error {
	if p.IsOpen() {
		_ = p.Close()
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	p.f = f
	p.w = bufio.NewWriter(f)
	p.path = path
	p.hasLast = false
	return nil
}

// Close flushes and closes the probe log file.  Closing an already-closed
// log is a no-op.
func (p *probeLog) Close() error {
	if !p.IsOpen() {
		return nil
	}
	ferr := p.w.Flush()
	cerr := p.f.Close()
	p.f = nil
	p.w = nil
	if ferr != nil {
		return ferr
	}
	return cerr
}

// WriteIfChanged appends one line for pose (in program units) if the log
// is open and pose differs from the previously logged sample.  It reports
// whether a line was written.
func (p *probeLog) WriteIfChanged(pose Pose) (bool, error) {
	if !p.IsOpen() {
		return false, ErrProbeLogNotOpen
	}
	pose = roundPose(pose, probeLogResolution)
	if p.hasLast && p.last == pose {
		return false, nil
	}
	line := fmt.Sprintf("%g %g %g %g %g %g %g %g %g\n",
		pose.X, pose.Y, pose.Z, pose.A, pose.B, pose.C, pose.U, pose.V, pose.W)
	if _, err := p.w.WriteString(line); err != nil {
		return false, err
	}
	if err := p.w.Flush(); err != nil {
		return false, err
	}
	p.last = pose
	p.hasLast = true
	return true, nil
}

// roundPose rounds every axis of pose to the nearest multiple of unit.
func roundPose(pose Pose, unit float64) Pose {
	return Pose{
		X: mathx.Round(pose.X, unit),
		Y: mathx.Round(pose.Y, unit),
		Z: mathx.Round(pose.Z, unit),
		A: mathx.Round(pose.A, unit),
		B: mathx.Round(pose.B, unit),
		C: mathx.Round(pose.C, unit),
		U: mathx.Round(pose.U, unit),
		V: mathx.Round(pose.V, unit),
		W: mathx.Round(pose.W, unit),
	}
}
