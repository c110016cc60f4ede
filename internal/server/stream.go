package server

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/gnegnu/gnegnu/internal/net"
	"github.com/gorilla/websocket"
)

// progressEvent is sent after every reported epoch.
type progressEvent struct {
	Epoch    int     `json:"epoch"`
	MaxError float64 `json:"maxError"`
}

// doneEvent ends a stream.
type doneEvent struct {
	Done   bool `json:"done"`
	Epochs int  `json:"epochs"`
}

type errorEvent struct {
	Error string `json:"error"`
}

// streamer sends training progress over a websocket and stops training
// once the client is gone.
type streamer struct {
	net.BaseCallback
	conn  *websocket.Conn
	every int
	err   error
}

func (s *streamer) OnEpochEnd(epoch int, maxErr float64, n *net.Network) {
	if s.err != nil || epoch%s.every != 0 {
		return
	}
	s.err = s.conn.WriteJSON(progressEvent{Epoch: epoch, MaxError: maxErr})
}

func (s *streamer) Stop() bool {
	return s.err != nil
}

// trainStreamHandler upgrades to a websocket, reads one train request and
// streams progress events followed by a done event.
func (s *Server) trainStreamHandler(c *gin.Context) {
	h, ok := s.lookup(c)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	var req trainRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(errorEvent{Error: "invalid request"})
		return
	}
	if req.Every <= 0 {
		req.Every = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.net.Destroyed() {
		conn.WriteJSON(errorEvent{Error: "no such network"})
		return
	}

	ds, err := req.dataset(h.net)
	if err != nil {
		conn.WriteJSON(errorEvent{Error: err.Error()})
		return
	}

	st := &streamer{conn: conn, every: req.Every}
	epochs := h.net.Train(ds, req.MaxError, req.MaxEpochs, st)
	if st.err != nil {
		log.Printf("websocket write: %v", st.err)
		return
	}
	conn.WriteJSON(doneEvent{Done: true, Epochs: epochs})
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
