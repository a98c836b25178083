// Package locker provides an HTTP middleware that can lock a route table,
// returning 423 (Locked) for every request except a configurable allow
// list.  Neither cmd/canonsrv nor httpapi mounts it.
package locker

import (
	"encoding/json"
	"go/types"
	"net/http"
	"strings"

	"github.com/canonmotion/gocanon/generichttp"
	"goji.io/pat"
)

// Inject adds GET/POST /lock routes onto rt, backed by l.
func Inject(rt generichttp.RouteTable, l *Locker) {
	rt[pat.Get("/lock")] = l.HTTPGet
	rt[pat.Post("/lock")] = l.HTTPSet
}

// Locker behaves like a sync.Mutex without the blocking, and holds a list
// of path substrings exempt from the lock.
type Locker struct {
	isLocked bool

	// DoNotProtect is a list of paths not to apply the lock to
	DoNotProtect []string
}

// New returns a new Locker with DoNotProtect prepopulated with "lock".
func New() *Locker {
	return &Locker{DoNotProtect: []string{"lock"}}
}

// Lock the locker.
func (l *Locker) Lock() {
	l.isLocked = true
}

// Unlock the locker.
func (l *Locker) Unlock() {
	l.isLocked = false
}

// Locked returns true if the locker is locked.
func (l *Locker) Locked() bool {
	return l.isLocked
}

// Check is an HTTP middleware that returns http.StatusLocked if Locked()
// is true and the request path isn't in DoNotProtect, otherwise passes the
// request down the chain.
func (l *Locker) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.Locked() {
			protected := true
			url := r.URL.Path
			for _, str := range l.DoNotProtect {
				if strings.Contains(url, str) {
					protected = false
				}
			}
			if protected {
				w.WriteHeader(http.StatusLocked)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// HTTPSet calls Lock or Unlock based on a JSON {"bool": ...} request body.
func (l *Locker) HTTPSet(w http.ResponseWriter, r *http.Request) {
	b := generichttp.BoolT{}
	err := json.NewDecoder(r.Body).Decode(&b)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if b.Bool {
		l.Lock()
	} else {
		l.Unlock()
	}
	w.WriteHeader(http.StatusOK)
}

// HTTPGet returns Locked() over HTTP as JSON.
func (l *Locker) HTTPGet(w http.ResponseWriter, r *http.Request) {
	b := l.Locked()
	hp := generichttp.HumanPayload{T: types.Bool, Bool: b}
	hp.EncodeAndRespond(w, r)
}
