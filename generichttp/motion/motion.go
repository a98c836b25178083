// Package motion exposes read-only, axis-indexed HTTP introspection over a
// canon.Engine: position and kinematic envelope limits per axis.  Unlike
// the teacher's same-named package, nothing here drives real hardware —
// the canonical front-end has no motor to enable or stop, so this package
// is narrowed to the query-side routes a dashboard or test harness needs.
package motion

import (
	"encoding/json"
	"go/types"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/canonmotion/gocanon/canon"
	"github.com/canonmotion/gocanon/generichttp"
)

// AxisPositioner exposes per-axis position queries; canon.Engine satisfies
// it via GetAxisPosition plus a name-to-index lookup.
type AxisPositioner interface {
	GetAxisPosition(axis int) (float64, error)
}

// AxisLimiter exposes per-axis kinematic limits; canon.LimitSource
// satisfies it directly.
type AxisLimiter interface {
	MaxVelocity(axis int) (float64, error)
	MaxAcceleration(axis int) (float64, error)
	MaxJerk(axis int) (float64, error)
}

var axisNames = map[string]int{
	"x": canon.AxisX, "y": canon.AxisY, "z": canon.AxisZ,
	"a": canon.AxisA, "b": canon.AxisB, "c": canon.AxisC,
	"u": canon.AxisU, "v": canon.AxisV, "w": canon.AxisW,
}

func axisFromURL(r *http.Request) (int, bool) {
	name := chi.URLParam(r, "axis")
	if idx, ok := axisNames[name]; ok {
		return idx, true
	}
	return 0, false
}

// HTTPAxisPosition adds a GET /axis/{axis}/pos route returning the axis's
// current program-unit position.
func HTTPAxisPosition(p AxisPositioner, rt generichttp.RouteTable2) {
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/axis/{axis}/pos"}] = func(w http.ResponseWriter, r *http.Request) {
		axis, ok := axisFromURL(r)
		if !ok {
			http.Error(w, "unknown axis", http.StatusBadRequest)
			return
		}
		pos, err := p.GetAxisPosition(axis)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		hp := generichttp.HumanPayload{T: types.Float64, Float: pos}
		hp.EncodeAndRespond(w, r)
	}
}

// limitsPayload is the JSON shape returned by /axis/{axis}/limits.
type limitsPayload struct {
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
	Jerk         float64 `json:"jerk"`
}

// HTTPAxisLimits adds a GET /axis/{axis}/limits route returning the
// kinematic envelope the axis configuration service reports for axis.
func HTTPAxisLimits(lim AxisLimiter, rt generichttp.RouteTable2) {
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/axis/{axis}/limits"}] = func(w http.ResponseWriter, r *http.Request) {
		axis, ok := axisFromURL(r)
		if !ok {
			http.Error(w, "unknown axis", http.StatusBadRequest)
			return
		}
		vel, err := lim.MaxVelocity(axis)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		acc, err := lim.MaxAcceleration(axis)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		jerk, err := lim.MaxJerk(axis)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		payload := limitsPayload{Velocity: vel, Acceleration: acc, Jerk: jerk}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// HTTPAxisMask adds a GET /axis/mask route returning the bit-packed axis
// mask currently in effect, as a JSON object whose "mask" field is the
// mask written as a binary string.
func HTTPAxisMask(get func() canon.AxisMask, rt generichttp.RouteTable2) {
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/axis/mask"}] = func(w http.ResponseWriter, r *http.Request) {
		mask := get()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"mask": strconv.FormatUint(uint64(mask), 2)})
	}
}
