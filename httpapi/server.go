// SPDX-License-Identifier: MIT

// Package httpapi exposes a session over HTTP.
//
//	POST   /api/generate   start a scan (JSON body overrides configured bounds and noise)
//	POST   /api/create     cluster and classify the current buckets
//	POST   /api/cancel     cancel the running job
//	GET    /api/progress   progress of the running job and session counters
//	GET    /api/polygons   current polygons as GeoJSON
//	GET    /api/locate     ?x=&z= polygon ids owning a cell
//	POST   /api/save       hand the polygons to the configured store
//	DELETE /api/session    cancel everything and clear
//
// Configuration is re-read on every generate and create call.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/katalvlaran/noiseregions/classify"
	"github.com/katalvlaran/noiseregions/config"
	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/noise"
	"github.com/katalvlaran/noiseregions/pipeline"
	"github.com/katalvlaran/noiseregions/session"
	"github.com/katalvlaran/noiseregions/store"
)

// Server wires HTTP handlers to a session.
type Server struct {
	sess   *session.Session
	lookup classify.Lookup
	saver  store.Saver
	load   func() (config.Config, error)
	log    *zap.Logger
}

// New returns a Server. load is called on every generate and create.
func New(sess *session.Session, lookup classify.Lookup, saver store.Saver, load func() (config.Config, error), log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{sess: sess, lookup: lookup, saver: saver, load: load, log: log}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	api := r.Group("/api")
	api.POST("/generate", s.generate)
	api.POST("/create", s.create)
	api.POST("/cancel", s.cancel)
	api.GET("/progress", s.progress)
	api.GET("/polygons", s.polygons)
	api.GET("/locate", s.locate)
	api.POST("/save", s.save)
	api.DELETE("/session", s.clear)
	return r
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

type generateRequest struct {
	MinX      *int     `json:"min_x"`
	MaxX      *int     `json:"max_x"`
	MinZ      *int     `json:"min_z"`
	MaxZ      *int     `json:"max_z"`
	Seed      *int64   `json:"seed"`
	Frequency *float64 `json:"frequency"`
	Jitter    *float64 `json:"jitter"`
}

func (r generateRequest) apply(b core.Bounds, p noise.Params) (core.Bounds, noise.Params) {
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&b.MinX, r.MinX)
	set(&b.MaxX, r.MaxX)
	set(&b.MinZ, r.MinZ)
	set(&b.MaxZ, r.MaxZ)
	if r.Seed != nil {
		p.Seed = *r.Seed
	}
	if r.Frequency != nil {
		p.Frequency = *r.Frequency
	}
	if r.Jitter != nil {
		p.Jitter = *r.Jitter
	}
	return b, p
}

func (s *Server) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg, err := s.load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	bounds, params := req.apply(cfg.Bounds(), cfg.NoiseParams())
	h, err := s.sess.Generate(detach(c), bounds, params)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "generation started", "progress": h.Progress()})
}

func (s *Server) create(c *gin.Context) {
	cfg, err := s.load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	cl, err := cfg.Classifier(s.lookup)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spec := session.Spec{Classifier: cl, Options: cfg.PipelineOptions(s.log)}
	h, err := s.sess.ClusterAndClassify(detach(c), spec)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "clustering started", "progress": h.Progress()})
}

func (s *Server) cancel(c *gin.Context) {
	h := s.sess.Current()
	if h == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no running job"})
		return
	}
	h.Cancel()
	c.JSON(http.StatusOK, gin.H{"message": "cancellation requested"})
}

func (s *Server) progress(c *gin.Context) {
	out := gin.H{
		"buckets":  s.sess.BucketCount(),
		"polygons": s.sess.PolygonCount(),
		"job":      nil,
	}
	if h := s.sess.Current(); h != nil {
		out["job"] = h.Progress()
	}
	if res := s.sess.LastResult(); res != nil {
		out["last_run"] = gin.H{
			"run_id":    s.sess.RunID().String(),
			"failures":  len(res.Failures),
			"discarded": res.Discarded,
			"cancelled": res.Cancelled,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) polygons(c *gin.Context) {
	var buf bytes.Buffer
	e := store.Export{RunID: s.sess.RunID(), Polygons: s.sess.Polygons()}
	if err := store.Encode(&buf, e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", buf.Bytes())
}

func (s *Server) locate(c *gin.Context) {
	x, err := strconv.Atoi(c.Query("x"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid x parameter"})
		return
	}
	z, err := strconv.Atoi(c.Query("z"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid z parameter"})
		return
	}
	ids := s.sess.Locate(core.Cell{X: x, Z: z})
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids})
}

func (s *Server) save(c *gin.Context) {
	polys := s.sess.Polygons()
	if len(polys) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "no polygons to save"})
		return
	}
	e := store.Export{RunID: s.sess.RunID(), Polygons: polys}
	if err := s.saver.Save(c.Request.Context(), e); err != nil {
		s.log.Error("save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "saved", "polygons": len(polys)})
}

func (s *Server) clear(c *gin.Context) {
	s.sess.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "session cleared"})
}

// detach keeps request values but not its cancellation; jobs outlive the
// response.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrNoBuckets):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidBounds),
		errors.Is(err, noise.ErrInvalidFrequency),
		errors.Is(err, noise.ErrInvalidJitter),
		errors.Is(err, pipeline.ErrOptionViolation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
