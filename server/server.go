// Package server contains the goji-based route table used for the
// canonical front-end's query interface: position, probe position, and
// override state.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"goji.io"
	"goji.io/pat"
)

// RouteTable maps a URL suffix (mounted under a Server's URLStem) to its
// handler.
type RouteTable map[string]http.HandlerFunc

// ListEndpoints lists the endpoints in a RouteTable (the keys).
func (rt RouteTable) ListEndpoints() []string {
	routes := make([]string, 0, len(rt))
	for k := range rt {
		routes = append(routes, k)
	}
	return routes
}

// A Server holds a RouteTable mounted under URLStem.
type Server struct {
	RouteTable RouteTable
	URLStem    string
}

// BindRoutes mounts every route in s.RouteTable onto mux at
// s.URLStem+"/"+key, using goji's pattern matching, plus a
// "list-of-routes" introspection endpoint.
func (s *Server) BindRoutes(mux *goji.Mux) {
	for str, meth := range s.RouteTable {
		mux.HandleFunc(pat.New(s.URLStem+"/"+str), meth)
	}

	mux.HandleFunc(pat.New(s.URLStem+"/list-of-routes"), func(w http.ResponseWriter, r *http.Request) {
		list := s.ListRoutes()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(list)
		if err != nil {
			fstr := fmt.Sprintf("error encoding list of routes data to json %q", err)
			log.Println(fstr)
			http.Error(w, fstr, http.StatusInternalServerError)
		}
	})
}

// ListRoutes returns a slice of strings that includes all of the routes
// bound by this server.
func (s *Server) ListRoutes() []string {
	return s.RouteTable.ListEndpoints()
}

// Mainframe is the top-level struct for an HTTP server with many Server
// objects mounted on a single goji.Mux.
type Mainframe struct {
	nodes []*Server
}

// Add adds a new server to the mainframe.
func (m *Mainframe) Add(s *Server) {
	m.nodes = append(m.nodes, s)
}

// RouteGraph returns a non-recursive, depth-1 map of URL stems and their
// endpoints.
func (m *Mainframe) RouteGraph() map[string][]string {
	routes := make(map[string][]string)
	for _, s := range m.nodes {
		routes[s.URLStem] = s.ListRoutes()
	}
	return routes
}

func (m *Mainframe) graphHandler(w http.ResponseWriter, r *http.Request) {
	graph := m.RouteGraph()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(graph)
	if err != nil {
		fstr := fmt.Sprintf("error encoding route graph to json state %q", err)
		log.Println(fstr)
		http.Error(w, fstr, http.StatusInternalServerError)
	}
}

// BindRoutes binds the routes for every member server, plus a top-level
// /route-graph introspection endpoint, onto mux.
func (m *Mainframe) BindRoutes(mux *goji.Mux) {
	for _, s := range m.nodes {
		s.BindRoutes(mux)
	}
	mux.HandleFunc(pat.New("/route-graph"), m.graphHandler)
}
