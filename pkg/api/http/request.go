package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"

	"github.com/aescanero/irisd/internal/inference"
)

// Number is a float that also accepts numeric strings such as "5.1".
// Values beyond float64 range become +Inf or -Inf.
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = []byte(s)
	}

	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return &json.UnmarshalTypeError{
			Value: string(data),
			Type:  reflect.TypeOf(Number(0)),
		}
	}

	*n = Number(v)
	return nil
}

// PredictRequest represents a prediction request. Pointers keep 0 a valid
// measurement while still letting "required" catch absent fields.
type PredictRequest struct {
	SepalLength *Number `json:"sepal_length" binding:"required"`
	SepalWidth  *Number `json:"sepal_width" binding:"required"`
	PetalLength *Number `json:"petal_length" binding:"required"`
	PetalWidth  *Number `json:"petal_width" binding:"required"`
}

// Measurement converts a bound request into the service input
func (r *PredictRequest) Measurement() inference.Measurement {
	return inference.Measurement{
		SepalLength: float64(*r.SepalLength),
		SepalWidth:  float64(*r.SepalWidth),
		PetalLength: float64(*r.PetalLength),
		PetalWidth:  float64(*r.PetalWidth),
	}
}

// PredictResponse represents a successful prediction
type PredictResponse struct {
	PredictedFlower string `json:"predicted_flower"`
}

// StatusResponse is returned by GET /
type StatusResponse struct {
	Message     string `json:"message"`
	ModelLoaded bool   `json:"model_loaded"`
}

// ModelUnavailableResponse is returned while no model is loaded
type ModelUnavailableResponse struct {
	Error string `json:"error"`
}

// ModelInfoResponse describes the loaded model
type ModelInfoResponse struct {
	FeatureNames []string `json:"feature_names"`
	TargetNames  []string `json:"target_names"`
	Accuracy     float64  `json:"accuracy"`
	TrainedAt    string   `json:"trained_at,omitempty"`
	Trees        int      `json:"trees"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// FieldError names one rejected request field
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}
