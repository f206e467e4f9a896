// Package server exposes the bulletin pipeline over HTTP: a
// scrape-and-parse endpoint, a direct-upload endpoint, and a health
// check. Parse-level problems (off-format documents, rejected rows)
// are successful responses with partial or empty data; only fatal
// input errors and authentication failures map to error statuses.
package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"presyo/internal"
	"presyo/internal/config"
	"presyo/internal/pipeline"
	"presyo/internal/scraper"
)

const maxUploadBytes = 20 << 20

type Server struct {
	cfg    config.Config
	svc    *pipeline.ProcessingService
	log    *logrus.Logger
	engine *gin.Engine
}

type scrapeRequest struct {
	TargetURL string `json:"target_url"`
}

type responseEnvelope struct {
	Status         string                 `json:"status"`
	DateProcessed  *string                `json:"date_processed"`
	OriginalURL    string                 `json:"original_url"`
	CoveredMarkets []string               `json:"covered_markets"`
	PriceData      []internal.PriceRecord `json:"price_data"`
}

func New(cfg config.Config, svc *pipeline.ProcessingService, log *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{cfg: cfg, svc: svc, log: log, engine: engine}

	engine.Use(s.requestLogger())
	engine.GET("/", s.handleHealth)

	api := engine.Group("/api", s.requireSecret())
	api.POST("/scrape-new-pdf", s.handleScrape)
	api.POST("/extract-manual", s.handleUpload)

	return s
}

func (s *Server) Run() error {
	s.log.WithField("addr", s.cfg.BindAddr).Info("server listening")
	return s.engine.Run(s.cfg.BindAddr)
}

// Handler exposes the engine for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

// requireSecret gates the API behind the shared-secret header. The
// core never sees the secret; this is purely a transport concern.
func (s *Server) requireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.SharedSecret == "" || c.GetHeader("X-Internal-Secret") != s.cfg.SharedSecret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "presyo price index service is running"})
}

func (s *Server) handleScrape(c *gin.Context) {
	var req scrapeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
			return
		}
	}

	res, err := s.svc.ScrapeLatest(c.Request.Context(), req.TargetURL)
	if err != nil {
		if errors.Is(err, scraper.ErrNoBulletins) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
		s.log.WithError(err).Error("scrape failed")
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, envelope("Success", res))
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file must be PDF"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unreadable upload"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unreadable upload"})
		return
	}

	res, err := s.svc.ProcessUpload(file.Filename, content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, envelope("Success (Manual)", res))
}

func envelope(status string, res pipeline.ProcessResult) responseEnvelope {
	return responseEnvelope{
		Status:         status,
		DateProcessed:  res.Result.Metadata.DateProcessed,
		OriginalURL:    res.SourceURL,
		CoveredMarkets: res.Result.Metadata.CoveredMarkets,
		PriceData:      res.Result.Records,
	}
}
