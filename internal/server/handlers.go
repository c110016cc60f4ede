package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gnegnu/gnegnu/internal/codegen"
	"github.com/gnegnu/gnegnu/internal/net"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type createRequest struct {
	Units []int `json:"units" binding:"required"`
}

type simulateRequest struct {
	Input []float64 `json:"input" binding:"required"`
}

type option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type configureRequest struct {
	Options []option `json:"options" binding:"required"`
}

type example struct {
	Input  []float64 `json:"input"`
	Output []float64 `json:"output"`
}

type trainRequest struct {
	Dataset   []example `json:"dataset"`
	MaxEpochs int       `json:"maxEpochs"`
	MaxError  float64   `json:"maxError"`
	// Every sets the epoch interval of streamed progress events, 1 when unset.
	Every int `json:"every"`
}

// dataset converts the request examples and checks them against n.
func (r *trainRequest) dataset(n *net.Network) (*net.Dataset, error) {
	ds := &net.Dataset{
		Inputs:  make([][]float64, len(r.Dataset)),
		Targets: make([][]float64, len(r.Dataset)),
	}
	for i, e := range r.Dataset {
		ds.Inputs[i] = e.Input
		ds.Targets[i] = e.Output
	}
	if err := ds.Validate(n.InputUnits(), n.OutputUnits()); err != nil {
		return nil, err
	}
	if r.MaxEpochs < 0 {
		return nil, errors.New("maxEpochs must not be negative")
	}
	return ds, nil
}

// status maps engine errors to HTTP status codes.
func status(err error) int {
	if errors.Is(err, net.ErrOutOfMemory) {
		return http.StatusInsufficientStorage
	}
	return http.StatusBadRequest
}

func (s *Server) createHandler(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	n, err := net.New(req.Units)
	if err != nil {
		c.JSON(status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": s.add(n)})
}

func (s *Server) importHandler(c *gin.Context) {
	text, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	n, err := net.Parse(string(text))
	if err != nil {
		c.JSON(status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": s.add(n)})
}

func (s *Server) exportHandler(c *gin.Context) {
	s.withNetwork(c, func(n *net.Network) {
		text, err := n.MarshalText()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", text)
	})
}

func (s *Server) deleteHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid network id"})
		return
	}
	h := s.remove(id)
	if h == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such network"})
		return
	}

	h.mu.Lock()
	h.net.Destroy()
	h.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) cloneHandler(c *gin.Context) {
	s.withNetwork(c, func(n *net.Network) {
		clone, err := n.Clone()
		if err != nil {
			c.JSON(status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": s.add(clone)})
	})
}

func (s *Server) simulateHandler(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	s.withNetwork(c, func(n *net.Network) {
		out, err := n.Predict(req.Input)
		if err != nil {
			c.JSON(status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"output": out})
	})
}

func (s *Server) configureHandler(c *gin.Context) {
	var req configureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	s.withNetwork(c, func(n *net.Network) {
		for i, o := range req.Options {
			if err := n.Configure(o.Name, o.Value); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "applied": i})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"applied": len(req.Options)})
	})
}

func (s *Server) trainHandler(c *gin.Context) {
	var req trainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	s.withNetwork(c, func(n *net.Network) {
		ds, err := req.dataset(n)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		epochs := n.Train(ds, req.MaxError, req.MaxEpochs)
		c.JSON(http.StatusOK, gin.H{"epochs": epochs})
	})
}

func (s *Server) dumpHandler(c *gin.Context) {
	s.withNetwork(c, func(n *net.Network) {
		var buf bytes.Buffer
		if err := n.Dump(&buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
	})
}

func (s *Server) tclHandler(c *gin.Context) {
	s.withNetwork(c, func(n *net.Network) {
		var buf bytes.Buffer
		if err := codegen.Tcl(&buf, n); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/x-tcl; charset=utf-8", buf.Bytes())
	})
}
