// Package httpapi wires a canon.Engine to two HTTP layers, mirroring the
// teacher's own in-progress migration from goji to chi rather than
// arbitrarily picking one: the query interface (position, probe position,
// overrides) is served from a goji-routed server.Server, the
// same way cmd/multiserver's original node routes were; the axis
// introspection routes (per-axis position and kinematic limits) are
// served from a chi-routed sub-mux, the way generichttp/motion's newer
// handlers are, and mounted under the goji root.
package httpapi

import (
	"encoding/json"
	"go/types"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"goji.io"
	"goji.io/pat"

	"github.com/canonmotion/gocanon/canon"
	"github.com/canonmotion/gocanon/generichttp"
	"github.com/canonmotion/gocanon/generichttp/ascii"
	"github.com/canonmotion/gocanon/generichttp/motion"
	"github.com/canonmotion/gocanon/server"
)

// RawCommunicator is satisfied by axisconfig.Client and
// externalstatus.Client, and is optionally mounted at /raw for
// diagnostics.
type RawCommunicator = ascii.RawCommunicator

// New builds the root goji.Mux serving every query-interface and
// axis-introspection route for engine. limits is the LimitSource backing
// the axis-limits introspection routes (typically the same LimitSource
// passed to canon.WithLimitSource); rawComm, if non-nil, is mounted at
// /diag/raw for ASCII passthrough diagnostics onto the underlying
// axis-configuration link (server.Server binds it for every method, not
// only POST).
func New(engine *canon.Engine, limits canon.LimitSource, rawComm RawCommunicator) *goji.Mux {
	mux := goji.NewMux()

	qs := queryServer(engine)
	qs.BindRoutes(mux)

	axisRT := generichttp.RouteTable2{}
	motion.HTTPAxisPosition(engine, axisRT)
	motion.HTTPAxisLimits(limits, axisRT)
	motion.HTTPAxisMask(engine.GetAxisMask, axisRT)

	chiRouter := chi.NewRouter()
	axisRT.Mount(chiRouter)
	mux.Handle(pat.New("/axis/*"), chiRouter)

	if rawComm != nil {
		rt := generichttp.RouteTable{}
		ascii.InjectRawComm(rt, rawComm)
		diag := &server.Server{URLStem: "/diag", RouteTable: toServerRouteTable(rt)}
		diag.BindRoutes(mux)
	}

	return mux
}

// toServerRouteTable flattens a goji-pattern-keyed generichttp.RouteTable
// (string-per-pattern) into server.RouteTable's simpler string-keyed form,
// since server.Server mounts everything under one URLStem already.  Each
// key is the pattern's path without its leading slash (BindRoutes adds
// URLStem+"/"); the pattern's method is dropped.
func toServerRouteTable(rt generichttp.RouteTable) server.RouteTable {
	out := server.RouteTable{}
	for pattern, h := range rt {
		out[strings.TrimPrefix(pattern.String(), "/")] = h
	}
	return out
}

// queryServer builds the /query route table: position and probe position
// in program units, and override state.  It has no tool-table route.
func queryServer(engine *canon.Engine) *server.Server {
	rt := server.RouteTable{
		"position": func(w http.ResponseWriter, r *http.Request) {
			pos, err := engine.GetExternalPosition()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writePose(w, pos)
		},
		"probeposition": func(w http.ResponseWriter, r *http.Request) {
			pos, err := engine.GetExternalProbePosition()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writePose(w, pos)
		},
		"overrides/feed": func(w http.ResponseWriter, r *http.Request) {
			on, err := engine.FeedOverrideEnabled()
			writeBool(w, on, err)
		},
		"overrides/spindle": func(w http.ResponseWriter, r *http.Request) {
			on, err := engine.SpindleOverrideEnabled()
			writeBool(w, on, err)
		},
		"overrides/adaptive-feed": func(w http.ResponseWriter, r *http.Request) {
			on, err := engine.AdaptiveFeedEnabled()
			writeBool(w, on, err)
		},
	}
	return &server.Server{URLStem: "/query", RouteTable: rt}
}

func writePose(w http.ResponseWriter, p canon.Pose) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(p)
}

func writeBool(w http.ResponseWriter, b bool, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	hp := generichttp.HumanPayload{T: types.Bool, Bool: b}
	hp.EncodeAndRespond(w, nil)
}
