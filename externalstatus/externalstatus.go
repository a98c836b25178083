// Package externalstatus is the client for the status-reporting
// collaborator (spec.md §1): current position, probed position, and I/O
// sensor state, as last reported by the downstream executor.  Its wire
// protocol is SCPI, adapted from this teacher's scpi package.
package externalstatus

import (
	"fmt"
	"strings"
	"time"

	"github.com/canonmotion/gocanon/canon"
	"github.com/canonmotion/gocanon/comm"
	"github.com/canonmotion/gocanon/scpi"
	"github.com/canonmotion/gocanon/util"
)

// axisSuffixes lists the SCPI query suffix for each canon axis, in index
// order, matching the POSition:<AXIS>? query family this client issues.
var axisSuffixes = [...]string{"X", "Y", "Z", "A", "B", "C", "U", "V", "W"}

// Client is a canon.ExternalStatus backed by a SCPI-speaking executor.
type Client struct {
	scpi *scpi.SCPI
}

// New returns a Client using a connection pool dialing addr over TCP.
// dialTimeoutSecs of zero selects a 3s default.
func New(addr string, dialTimeoutSecs float64) *Client {
	dialTimeout := util.SecsToDuration(dialTimeoutSecs)
	if dialTimeout <= 0 {
		dialTimeout = 3 * time.Second
	}
	maker := comm.TCPConnMaker(addr, dialTimeout)
	pool := comm.NewPool(2, 30*time.Second, maker)
	return &Client{scpi: &scpi.SCPI{Pool: pool, Handshaking: false}}
}

// Position satisfies canon.ExternalStatus: it queries POSition:<axis>? for
// every axis and assembles the result into a Pose (internal units).
func (c *Client) Position() (canon.Pose, error) {
	return c.queryPose("POSition")
}

// ProbePosition satisfies canon.ExternalStatus via PROBe:POSition:<axis>?.
func (c *Client) ProbePosition() (canon.Pose, error) {
	return c.queryPose("PROBe:POSition")
}

func (c *Client) queryPose(prefix string) (canon.Pose, error) {
	var p canon.Pose
	for axis, suffix := range axisSuffixes {
		v, err := c.scpi.ReadFloat(fmt.Sprintf("%s:%s?", prefix, suffix))
		if err != nil {
			return canon.Pose{}, err
		}
		p = p.With(axis, v)
	}
	return p, nil
}

// DigitalInput satisfies canon.ExternalStatus.
func (c *Client) DigitalInput(index int, def bool) (bool, error) {
	v, err := c.scpi.ReadBool(fmt.Sprintf("INPut:DIGital:%d?", index))
	if err != nil {
		return def, err
	}
	return v, nil
}

// AnalogInput satisfies canon.ExternalStatus.
func (c *Client) AnalogInput(index int, def float64) (float64, error) {
	v, err := c.scpi.ReadFloat(fmt.Sprintf("INPut:ANAlog:%d?", index))
	if err != nil {
		return def, err
	}
	return v, nil
}

// FeedOverrideEnabled satisfies canon.ExternalStatus.
func (c *Client) FeedOverrideEnabled() (bool, error) {
	return c.scpi.ReadBool("OVERRide:FEED:ENABle?")
}

// SpindleOverrideEnabled satisfies canon.ExternalStatus.
func (c *Client) SpindleOverrideEnabled() (bool, error) {
	return c.scpi.ReadBool("OVERRide:SPINdle:ENABle?")
}

// AdaptiveFeedEnabled satisfies canon.ExternalStatus.
func (c *Client) AdaptiveFeedEnabled() (bool, error) {
	return c.scpi.ReadBool("ADAPtive:FEED:ENABle?")
}

// Raw satisfies generichttp/ascii.RawCommunicator for diagnostic access,
// delegating directly to the underlying SCPI connection.
func (c *Client) Raw(s string) (string, error) {
	return c.scpi.Raw(s)
}

// parseErrorList is a small helper used by PendingErrors to pretty-print
// the executor's pending SCPI error queue.
func parseErrorList(errs []error) string {
	strs := make([]string, len(errs))
	for i, e := range errs {
		strs[i] = e.Error()
	}
	return strings.Join(strs, "; ")
}

// PendingErrors drains and formats the executor's SCPI error queue.
func (c *Client) PendingErrors() string {
	return parseErrorList(c.scpi.AllErrors())
}
