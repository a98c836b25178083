// Package axisconfig is the client for the external axis configuration
// service: the out-of-scope collaborator (spec.md §1) that knows the
// kinematic limits and physical axis mask of the machine.  Its wire
// protocol is ASCII request/response over a pooled TCP or serial link,
// adapted from the Aerotech Ensemble ASCII dialect this teacher's
// aerotech package spoke: one line out, one line back, "!" on error.
package axisconfig

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/canonmotion/gocanon/canon"
	"github.com/canonmotion/gocanon/comm"
	"github.com/canonmotion/gocanon/util"
	"github.com/tarm/serial"
)

// Terminator is the line terminator used on the wire, matching the
// Aerotech-derived ASCII dialect this client speaks.
const Terminator = '\r'

const maxTries = 3

// Client is a canon.LimitSource backed by the external axis configuration
// service.  It also exposes Raw for diagnostic passthrough and Refresh for
// proactively re-fetching the axis mask.
type Client struct {
	pool    *comm.Pool
	timeout time.Duration

	// limiter throttles Refresh calls so a misbehaving caller (or a
	// flush-triggered re-derivation loop) cannot hammer the service.
	limiter *rate.Limiter

	mask canon.AxisMask
}

// NewTCP returns a Client dialing addr over TCP, with exponential-backoff
// retry on connect, matching aerotech.go's NewEnsemble construction.
// dialTimeoutSecs of zero selects a 3s default.
func NewTCP(addr string, dialTimeoutSecs float64) *Client {
	dialTimeout := util.SecsToDuration(dialTimeoutSecs)
	if dialTimeout <= 0 {
		dialTimeout = 3 * time.Second
	}
	maker := comm.BackingOffTCPConnMaker(addr, dialTimeout)
	pool := comm.NewPool(1, 30*time.Second, maker)
	return &Client{
		pool:    pool,
		timeout: 10 * time.Second,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
}

// NewSerial returns a Client communicating over a serial port described by
// cfg.
func NewSerial(cfg *serial.Config) *Client {
	maker := comm.SerialConnMaker(cfg)
	pool := comm.NewPool(1, 30*time.Second, maker)
	return &Client{
		pool:    pool,
		timeout: 10 * time.Second,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
}

// writeReadRaw sends msg and returns the raw response line, retrying up to
// maxTries times on a reset connection, matching aerotech.go's
// writeReadRaw retry shape.
func (c *Client) writeReadRaw(msg string) (string, error) {
	var (
		conn io.ReadWriter
		wrap io.ReadWriter
		werr error = io.EOF
		tries      = 0
	)
	for werr != nil && tries < maxTries {
		var err error
		conn, err = c.pool.Get()
		if err != nil {
			return "", errors.Wrap(err, "acquiring axis configuration service connection")
		}
		wrap = comm.NewTimeout(conn, c.timeout)
		wrap = comm.NewTerminator(wrap, Terminator, Terminator)
		_, werr = io.WriteString(wrap, msg)
		if werr != nil {
			if strings.Contains(werr.Error(), "reset") {
				tries++
				c.pool.Destroy(conn)
				continue
			}
			c.pool.Destroy(conn)
			return "", errors.Wrap(werr, "writing to axis configuration service")
		}
		break
	}

	buf := make([]byte, 1500)
	n, rerr := wrap.Read(buf)
	c.pool.ReturnWithError(conn, rerr)
	if rerr != nil {
		return "", errors.Wrap(rerr, "reading from axis configuration service")
	}
	resp := string(buf[:n])
	if strings.HasPrefix(resp, "!") {
		return "", fmt.Errorf("axis configuration service error: %s", strings.TrimPrefix(resp, "!"))
	}
	return resp, nil
}

// Raw satisfies generichttp/ascii.RawCommunicator for diagnostic access.
func (c *Client) Raw(s string) (string, error) {
	return c.writeReadRaw(s)
}

func (c *Client) queryFloat(cmd string) (float64, error) {
	resp, err := c.writeReadRaw(cmd)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(resp), 64)
}

// axisName maps a canon axis index to the service's single-letter axis
// name, matching the Aerotech ASCII convention.
func axisName(axis int) (string, error) {
	switch axis {
	case canon.AxisX:
		return "X", nil
	case canon.AxisY:
		return "Y", nil
	case canon.AxisZ:
		return "Z", nil
	case canon.AxisA:
		return "A", nil
	case canon.AxisB:
		return "B", nil
	case canon.AxisC:
		return "C", nil
	case canon.AxisU:
		return "U", nil
	case canon.AxisV:
		return "V", nil
	case canon.AxisW:
		return "W", nil
	default:
		return "", canon.ErrAxisOutOfRange
	}
}

// MaxVelocity satisfies canon.LimitSource.
func (c *Client) MaxVelocity(axis int) (float64, error) {
	name, err := axisName(axis)
	if err != nil {
		return 0, err
	}
	return c.queryFloat(fmt.Sprintf("MAXVEL(%s)", name))
}

// MaxAcceleration satisfies canon.LimitSource.
func (c *Client) MaxAcceleration(axis int) (float64, error) {
	name, err := axisName(axis)
	if err != nil {
		return 0, err
	}
	return c.queryFloat(fmt.Sprintf("MAXACCEL(%s)", name))
}

// MaxJerk satisfies canon.LimitSource.
func (c *Client) MaxJerk(axis int) (float64, error) {
	name, err := axisName(axis)
	if err != nil {
		return 0, err
	}
	return c.queryFloat(fmt.Sprintf("MAXJERK(%s)", name))
}

// Refresh re-fetches the physical axis mask from the service, rate
// limited to avoid hammering it from a tight dispatch loop.
func (c *Client) Refresh() (canon.AxisMask, error) {
	if !c.limiter.Allow() {
		return c.mask, nil
	}
	resp, err := c.writeReadRaw("AXISMASK")
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(resp), 2, 16)
	if err != nil {
		return 0, errors.Wrap(err, "parsing axis mask response")
	}
	c.mask = canon.AxisMask(v)
	return c.mask, nil
}

// GetAxisMask returns the most recently refreshed axis mask without
// contacting the service.
func (c *Client) GetAxisMask() canon.AxisMask {
	return c.mask
}
