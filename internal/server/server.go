// Package server exposes the assessment engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/heartguard/internal/assess"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// HealthChecker is satisfied by artifact stores backed by a remote service.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server holds the handlers' shared dependencies.
type Server struct {
	registry *assess.Registry
	store    HealthChecker
	logger   *zap.Logger
}

// New builds a server. store may be nil when the artifact source has no
// remote dependency.
func New(registry *assess.Registry, store HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{registry: registry, store: store, logger: logger}
}

// Router wires middleware and routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		requestLogger(s.logger),
		gin.CustomRecovery(s.recovery),
		limitBodySize(MaxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", s.readyz)

	api := router.Group("/api/v1")
	api.GET("/schemas/:variant", s.getSchema)
	api.POST("/assessments", s.postAssessment)
	api.POST("/assessments/:variant", s.postAssessment)
	api.POST("/bmi", s.postBMI)
	api.POST("/simulations", s.postSimulation)

	return router
}

func (s *Server) readyz(c *gin.Context) {
	variants := s.registry.Variants()
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "local", "variants": variants})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"store":  "unhealthy: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "ok", "variants": variants})
}

func (s *Server) recovery(c *gin.Context, recovered any) {
	s.logger.Error("panic recovered",
		zap.Any("panic", recovered),
		zap.String("path", c.Request.URL.Path),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
