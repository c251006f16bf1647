package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/app-estudos/estudos/pkg/history"
	"github.com/app-estudos/estudos/pkg/navigation"
	"github.com/app-estudos/estudos/pkg/router"
	"github.com/app-estudos/estudos/pkg/view"
)

// statusFor maps a navigation error to an HTTP status.
func statusFor(err error) int {
	var (
		loadErr    *router.LoadError
		composeErr *router.ComposeError
	)
	switch {
	case errors.Is(err, router.ErrNotFound), errors.Is(err, history.ErrOutsideBase):
		return http.StatusNotFound
	case errors.As(err, &loadErr):
		return http.StatusBadGateway
	case errors.As(err, &composeErr):
		return http.StatusInternalServerError
	case errors.Is(err, navigation.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, navigation.ErrAmbiguousRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	loc, err := s.history.Location(r.URL.RequestURI())
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, history.ErrOutsideBase) {
			status = http.StatusNotFound
		}
		s.writePage(w, status, s.errorBody(status, r.URL.Path))
		return
	}

	m, err := s.table.Resolve(loc.Path)
	if err != nil {
		s.writePage(w, http.StatusNotFound, s.errorBody(http.StatusNotFound, loc.Path))
		return
	}

	tree, err := s.table.Render(r.Context(), m)
	if err != nil {
		status := statusFor(err)
		if r.Context().Err() != nil {
			s.logger.Debug("page request abandoned", "path", loc.Path, "error", err)
		} else {
			s.logger.Error("page render failed", "path", loc.Path, "route", m.Leaf().String(), "status", status, "error", err)
		}
		s.writePage(w, status, s.errorBody(status, loc.Path))
		return
	}
	s.writePage(w, http.StatusOK, tree)
}

func (s *Server) errorBody(status int, path string) *view.Node {
	msg := "Something went wrong while loading this page."
	switch status {
	case http.StatusNotFound:
		msg = "No page at " + path + "."
	case http.StatusBadRequest:
		msg = "Invalid address."
	case http.StatusBadGateway:
		msg = "This page could not be loaded. Try again."
	}
	return view.El("div", view.Class("error"), view.A("data-status", strconv.Itoa(status)),
		view.El("h1", http.StatusText(status)),
		view.El("p", msg),
		view.El("a", view.Href(s.history.Href("/", nil)), "Dashboard"),
	)
}

func (s *Server) writePage(w http.ResponseWriter, status int, body *view.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.RenderToWriter(w, s.shell(body)); err != nil {
		s.logger.Error("page write failed", "error", err)
	}
}

// shell wraps a rendered route in the HTML document.
func (s *Server) shell(body *view.Node) *view.Node {
	return view.Fragment(
		view.Raw("<!DOCTYPE html>"),
		view.El("html", view.A("lang", "pt-BR"),
			view.El("head",
				view.El("meta", view.A("charset", "utf-8")),
				view.El("meta", view.A("name", "viewport"), view.A("content", "width=device-width, initial-scale=1")),
				view.El("title", s.config.Title),
			),
			view.El("body",
				view.El("div", view.ID("app"), view.A("data-nav", s.history.Href("/_nav", nil)), body),
				view.El("script", view.Raw(navScript)),
			),
		),
	)
}

// navScript upgrades same-origin link clicks to WebSocket navigations.
const navScript = `(function () {
  var app = document.getElementById("app");
  var url = new URL(app.dataset.nav, location.href);
  url.protocol = url.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(url);
  var applied = 0;
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.seq) {
      if (msg.seq <= applied) { return; }
      applied = msg.seq;
    }
    if (msg.error) {
      if (msg.status === 404 && msg.path) { location.href = msg.path; }
      return;
    }
    app.innerHTML = msg.html;
    if (msg.path !== location.pathname + location.search) {
      history[msg.replace ? "replaceState" : "pushState"]({}, "", msg.path);
    }
  };
  function go(path, replace) {
    if (ws.readyState !== WebSocket.OPEN) { location.href = path; return; }
    ws.send(JSON.stringify({path: path, replace: !!replace}));
  }
  document.addEventListener("click", function (ev) {
    var a = ev.target.closest("a[href]");
    if (!a || a.origin !== location.origin || ev.metaKey || ev.ctrlKey) { return; }
    ev.preventDefault();
    go(a.pathname + a.search);
  });
  window.addEventListener("popstate", function () { go(location.pathname + location.search, true); });
})();`
