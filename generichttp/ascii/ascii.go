// Package ascii contains injectable HTTP interfaces for ASCII-protocol
// hardware clients, such as the raw passthrough exposed by axisconfig.
package ascii

import (
	"encoding/json"
	"go/types"
	"net/http"

	"github.com/canonmotion/gocanon/generichttp"
	"goji.io/pat"
)

// RawCommunicator has a single Raw method, sending str verbatim to the
// device and returning its response (empty for a write-only command).
type RawCommunicator interface {
	Raw(string) (string, error)
}

// rawWrapper is a wrapper around a raw communicator
type rawWrapper struct {
	comm RawCommunicator
}

func (rw *rawWrapper) httpraw(w http.ResponseWriter, r *http.Request) {
	str := generichttp.StrT{}
	err := json.NewDecoder(r.Body).Decode(&str)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp, err := rw.comm.Raw(str.Str)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	hp := generichttp.HumanPayload{T: types.String, String: resp}
	hp.EncodeAndRespond(w, r)
}

// InjectRawComm injects a /raw POST route into rt, for an object that
// exposes a raw passthrough onto its underlying hardware connection (used
// by cmd/canonsrv to expose axisconfig's raw ASCII channel for diagnostics).
func InjectRawComm(rt generichttp.RouteTable, raw RawCommunicator) {
	wrap := rawWrapper{comm: raw}
	rt[pat.Post("/raw")] = wrap.httpraw
}
