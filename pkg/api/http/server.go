package http

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/aescanero/irisd/internal/classifier"
	"github.com/aescanero/irisd/internal/inference"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Predictor is the prediction service used by the handlers
type Predictor interface {
	Loaded() bool
	Predict(ctx context.Context, m inference.Measurement) (*inference.Prediction, error)
	Info() (*classifier.Metadata, int, error)
}

// Metrics counts requests and serves the exposition endpoint
type Metrics interface {
	IncRequests(endpoint string)
	Handler() http.Handler
}

// Server represents the HTTP API server
type Server struct {
	router          *gin.Engine
	server          *http.Server
	predictor       Predictor
	metrics         Metrics
	logger          *zap.Logger
	softModelErrors bool
}

// Config holds HTTP server configuration
type Config struct {
	Addr      string
	Predictor Predictor
	Metrics   Metrics
	Logger    *zap.Logger

	// SoftModelErrors answers "Model not loaded" with 200 instead of 503
	SoftModelErrors bool
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	useJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger))
	router.Use(corsMiddleware())

	s := &Server{
		router:          router,
		predictor:       cfg.Predictor,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
		softModelErrors: cfg.SoftModelErrors,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/ui", s.handleUI)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Inference
	s.router.POST("/predict", s.handlePredict)
	s.router.GET("/model/info", s.handleModelInfo)
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}

var tagNameOnce sync.Once

// useJSONFieldNames makes validation errors report json tag names
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}
