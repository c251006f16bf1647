package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/app-estudos/estudos/pkg/navigation"
	"github.com/app-estudos/estudos/pkg/routepath"
	"github.com/app-estudos/estudos/pkg/router"
	"github.com/app-estudos/estudos/pkg/view"
)

// NavRequest is a client navigation message. Path is a browser path,
// including the base path.
type NavRequest struct {
	Path    string            `json:"path,omitempty"`
	Name    string            `json:"name,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Replace bool              `json:"replace,omitempty"`
}

// NavReply is a server message: a committed render or an error.
type NavReply struct {
	ID      string `json:"id,omitempty"`
	Seq     uint64 `json:"seq,omitempty"`
	Path    string `json:"path,omitempty"`
	Name    string `json:"name,omitempty"`
	HTML    string `json:"html,omitempty"`
	Replace bool   `json:"replace,omitempty"`

	Error  string `json:"error,omitempty"`
	Status int    `json:"status,omitempty"`
}

// navConn is one navigation WebSocket. Every message is handled on its own
// goroutine; the connection's Navigator drops renders that finish after a
// newer one.
type navConn struct {
	s    *Server
	conn *websocket.Conn
	nav  *navigation.Navigator

	writeMu sync.Mutex
	// lastSeq is the sequence number of the newest reply written.
	lastSeq uint64

	wg sync.WaitGroup
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("navigation upgrade failed", "error", err)
		return
	}

	c := &navConn{
		s:    s,
		conn: conn,
		nav:  navigation.New(s.table, navigation.WithLogger(s.logger)),
	}
	if s.metrics != nil {
		s.metrics.ConnectionOpened()
		defer s.metrics.ConnectionClosed()
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go c.pingLoop(ctx)

	c.readLoop(ctx)
	cancel()
	c.wg.Wait()
	conn.Close()
}

func (c *navConn) readLoop(ctx context.Context) {
	cfg := c.s.config
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.s.logger.Warn("navigation read error", "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(cfg.PongTimeout))

		// Sequence numbers follow the order messages arrive in.
		seq := c.nav.Next()
		var req NavRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			c.write(NavReply{Seq: seq, Error: "invalid message", Status: http.StatusBadRequest})
			continue
		}

		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.navigate(ctx, seq, req)
		}()
	}
}

func (c *navConn) navigate(ctx context.Context, seq uint64, req NavRequest) {
	navReq := navigation.Request{Name: req.Name, Params: router.Params(req.Params), Replace: req.Replace}
	var query string
	if req.Path != "" {
		target, err := routepath.CanonicalizeAndValidateNavPath(req.Path)
		if err != nil {
			c.write(NavReply{Error: err.Error(), Status: http.StatusBadRequest, Path: req.Path, Seq: seq})
			return
		}
		loc, err := c.s.history.Location(target)
		if err != nil {
			c.write(NavReply{Error: err.Error(), Status: statusFor(err), Path: req.Path, Seq: seq})
			return
		}
		navReq.Path = loc.Path
		query = loc.Query.Encode()
	}

	res, err := c.nav.NavigateAt(ctx, seq, navReq)
	if err != nil {
		c.s.recordNavigation(err)
		if errors.Is(err, navigation.ErrSuperseded) || ctx.Err() != nil {
			return
		}
		c.write(NavReply{Error: err.Error(), Status: statusFor(err), Path: req.Path, Seq: seq})
		return
	}
	c.s.recordNavigation(nil)

	html, err := view.RenderToString(res.Tree)
	if err != nil {
		c.write(NavReply{Error: err.Error(), Status: http.StatusInternalServerError, Path: req.Path, Seq: seq})
		return
	}
	path := c.s.history.Href(res.Match.Path, nil)
	if query != "" {
		path += "?" + query
	}
	c.write(NavReply{
		ID:      res.ID.String(),
		Seq:     res.Seq,
		Path:    path,
		Name:    res.Match.Name(),
		HTML:    html,
		Replace: req.Replace,
	})
}

// write sends reply unless a reply to a newer request was already sent.
func (c *navConn) write(reply NavReply) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if reply.Seq <= c.lastSeq {
		c.s.logger.Debug("stale navigation reply dropped", "seq", reply.Seq, "last_seq", c.lastSeq)
		return
	}
	c.lastSeq = reply.Seq
	c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WSWriteTimeout))
	if err := c.conn.WriteJSON(reply); err != nil {
		c.s.logger.Debug("navigation write failed", "error", err)
	}
}

func (c *navConn) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.s.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Unblocks the reader when the server shuts down.
			c.conn.Close()
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.s.config.WSWriteTimeout))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (s *Server) recordNavigation(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.RecordNavigation("committed")
	case errors.Is(err, navigation.ErrSuperseded):
		s.metrics.RecordNavigation("superseded")
	default:
		s.metrics.RecordNavigation("error")
	}
}
