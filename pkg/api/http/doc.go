// Package http provides the HTTP API implementation.
//
// The HTTP server exposes endpoints for:
//   - Liveness and model status (GET /)
//   - Species prediction (POST /predict)
//   - Model metadata (GET /model/info)
//   - Prometheus metrics (GET /metrics)
//   - A static test form (GET /ui)
package http
