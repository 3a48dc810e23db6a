package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aescanero/irisd/internal/classifier"
	"go.uber.org/zap"
)

// ErrModelNotLoaded is returned by every prediction in degraded mode
var ErrModelNotLoaded = errors.New("model not loaded")

// Measurement is one flower's four measurements in centimetres
type Measurement struct {
	SepalLength float64
	SepalWidth  float64
	PetalLength float64
	PetalWidth  float64
}

// Vector returns the features in training order
func (m Measurement) Vector() []float64 {
	return []float64{m.SepalLength, m.SepalWidth, m.PetalLength, m.PetalWidth}
}

// Prediction is the result of classifying one measurement
type Prediction struct {
	Species string
}

// Metrics receives prediction latency observations
type Metrics interface {
	ObservePredictLatency(duration time.Duration)
}

// Service classifies measurements with a read-only model
type Service struct {
	model   *classifier.Model
	metrics Metrics
	logger  *zap.Logger
}

// NewService creates a prediction service. model may be nil.
func NewService(model *classifier.Model, metrics Metrics, logger *zap.Logger) *Service {
	return &Service{
		model:   model,
		metrics: metrics,
		logger:  logger,
	}
}

// Loaded reports whether a model is available
func (s *Service) Loaded() bool {
	return s.model != nil
}

// Predict classifies m and records the classify latency on success.
// Classification does not block, so ctx is not consulted.
func (s *Service) Predict(_ context.Context, m Measurement) (*Prediction, error) {
	if s.model == nil {
		return nil, ErrModelNotLoaded
	}

	start := time.Now()

	label, err := s.model.Classify(m.Vector())
	if err != nil {
		return nil, fmt.Errorf("classify failed: %w", err)
	}
	species, err := s.model.Label(label)
	if err != nil {
		return nil, fmt.Errorf("label lookup failed: %w", err)
	}

	elapsed := time.Since(start)
	s.metrics.ObservePredictLatency(elapsed)

	s.logger.Debug("prediction",
		zap.String("species", species),
		zap.Int("label", label),
		zap.Duration("latency", elapsed))

	return &Prediction{Species: species}, nil
}

// Info returns the metadata of the loaded model
func (s *Service) Info() (*classifier.Metadata, int, error) {
	if s.model == nil {
		return nil, 0, ErrModelNotLoaded
	}
	md := s.model.Metadata()
	return &md, s.model.Trees(), nil
}
