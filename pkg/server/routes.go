package server

import (
	"encoding/json"
	"net/http"

	"github.com/app-estudos/estudos/pkg/router"
)

// RouteInfo describes one node of the table.
type RouteInfo struct {
	Path     string `json:"path" yaml:"path"`
	FullPath string `json:"fullPath" yaml:"fullPath"`
	Href     string `json:"href" yaml:"href"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Depth    int    `json:"depth" yaml:"depth"`
	Layout   bool   `json:"layout" yaml:"layout"`
	Default  bool   `json:"default" yaml:"default"`
	State    string `json:"state" yaml:"state"`
	Loads    int64  `json:"loads" yaml:"loads"`
}

// DescribeRoutes lists the nodes of table, depth first.
func DescribeRoutes(table *router.Table, href func(string) string) []RouteInfo {
	out := make([]RouteInfo, 0, table.Len())
	table.Walk(func(n *router.Node) bool {
		out = append(out, RouteInfo{
			Path:     n.Path(),
			FullPath: n.FullPath(),
			Href:     href(n.FullPath()),
			Name:     n.Name(),
			Depth:    n.Depth(),
			Layout:   n.IsLayout(),
			Default:  n.IsDefault(),
			State:    n.State().String(),
			Loads:    n.LoadCount(),
		})
		return true
	})
	return out
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	routes := DescribeRoutes(s.table, func(p string) string { return s.history.Href(p, nil) })
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(routes); err != nil {
		s.logger.Error("routes write failed", "error", err)
	}
}
