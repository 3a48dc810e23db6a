// Package grpc exposes the standard grpc.health.v1 service so orchestrators
// can probe irisd over gRPC. Status follows the model: SERVING when one was
// loaded at startup, NOT_SERVING in degraded mode.
package grpc
