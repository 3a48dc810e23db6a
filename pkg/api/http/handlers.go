package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aescanero/irisd/internal/inference"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const modelNotLoaded = "Model not loaded"

// handleRoot reports liveness and whether a model is loaded
func (s *Server) handleRoot(c *gin.Context) {
	s.metrics.IncRequests("/")

	c.JSON(http.StatusOK, StatusResponse{
		Message:     "API working",
		ModelLoaded: s.predictor.Loaded(),
	})
}

// handlePredict classifies one flower measurement
func (s *Server) handlePredict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("invalid prediction request", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "VALIDATION_ERROR",
				Message: "invalid prediction request",
				Details: fieldErrors(err),
			},
		})
		return
	}

	s.metrics.IncRequests("/predict")

	prediction, err := s.predictor.Predict(c.Request.Context(), req.Measurement())
	if err != nil {
		if errors.Is(err, inference.ErrModelNotLoaded) {
			s.respondModelNotLoaded(c)
			return
		}
		s.logger.Error("prediction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "PREDICTION_FAILED",
				Message: "Prediction failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, PredictResponse{PredictedFlower: prediction.Species})
}

// handleModelInfo returns the metadata stored with the model artifact
func (s *Server) handleModelInfo(c *gin.Context) {
	s.metrics.IncRequests("/model/info")

	md, trees, err := s.predictor.Info()
	if err != nil {
		s.respondModelNotLoaded(c)
		return
	}

	resp := ModelInfoResponse{
		FeatureNames: md.FeatureNames,
		TargetNames:  md.TargetNames,
		Accuracy:     md.Accuracy,
		Trees:        trees,
	}
	if !md.TrainedAt.IsZero() {
		resp.TrainedAt = md.TrainedAt.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}

// handleUI serves the static prediction form
func (s *Server) handleUI(c *gin.Context) {
	s.metrics.IncRequests("/ui")

	c.Data(http.StatusOK, "text/html; charset=utf-8", uiPage)
}

func (s *Server) respondModelNotLoaded(c *gin.Context) {
	status := http.StatusServiceUnavailable
	if s.softModelErrors {
		status = http.StatusOK
	}
	c.JSON(status, ModelUnavailableResponse{Error: modelNotLoaded})
}

// fieldErrors turns binding errors into per-field reasons
func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			reason := fe.Tag()
			if reason == "required" {
				reason = "field required"
			}
			out = append(out, FieldError{Field: fe.Field(), Reason: reason})
		}
		return out
	}

	if errors.Is(err, io.EOF) {
		return []FieldError{{Field: "body", Reason: "request body required"}}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return []FieldError{{Field: "body", Reason: "expected a JSON object"}}
		}
		return []FieldError{{Field: typeErr.Field, Reason: "value is not a valid float"}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []FieldError{{Field: "body", Reason: "malformed JSON"}}
	}

	return []FieldError{{Field: "body", Reason: err.Error()}}
}
