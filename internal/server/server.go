// Package server exposes networks over HTTP. Each network lives behind an
// opaque uuid handle; requests on one handle are serialized.
package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gnegnu/gnegnu/internal/net"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server holds the live networks and the HTTP router serving them.
type Server struct {
	mu       sync.RWMutex
	networks map[uuid.UUID]*handle

	Router   *gin.Engine
	upgrader websocket.Upgrader
}

type handle struct {
	mu  sync.Mutex
	net *net.Network
}

// New returns a server with every route registered.
func New() *Server {
	s := &Server{
		networks: make(map[uuid.UUID]*handle),
		Router:   gin.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	g := s.Router.Group("/networks")
	g.POST("", s.createHandler)
	g.POST("/import", s.importHandler)
	g.GET("/:id", s.exportHandler)
	g.DELETE("/:id", s.deleteHandler)
	g.POST("/:id/clone", s.cloneHandler)
	g.POST("/:id/simulate", s.simulateHandler)
	g.POST("/:id/configure", s.configureHandler)
	g.POST("/:id/train", s.trainHandler)
	g.GET("/:id/train/ws", s.trainStreamHandler)
	g.GET("/:id/dump", s.dumpHandler)
	g.GET("/:id/tcl", s.tclHandler)
}

// Run listens on addr and serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("annserver listening on %s", addr)
	return s.Router.Run(addr)
}

// Len returns the number of live networks.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.networks)
}

func (s *Server) add(n *net.Network) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.networks[id] = &handle{net: n}
	s.mu.Unlock()
	return id
}

func (s *Server) remove(id uuid.UUID) *handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.networks[id]
	if !ok {
		return nil
	}
	delete(s.networks, id)
	return h
}

// lookup resolves the :id parameter, answering 400 or 404 itself on failure.
func (s *Server) lookup(c *gin.Context) (*handle, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid network id"})
		return nil, false
	}
	s.mu.RLock()
	h, ok := s.networks[id]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such network"})
		return nil, false
	}
	return h, true
}

// withNetwork runs f with the handle's network locked. A network destroyed
// while the request waited for the lock answers 404.
func (s *Server) withNetwork(c *gin.Context, f func(n *net.Network)) {
	h, ok := s.lookup(c)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.net.Destroyed() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such network"})
		return
	}
	f(h.net)
}
