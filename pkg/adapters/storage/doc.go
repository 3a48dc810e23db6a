// Package storage provides model artifact sources.
//
// Implementations:
//   - file: artifact JSON on local disk (default)
//   - redis: artifact JSON stored under a Redis key, published by iris-train
//   - memory: In-memory for testing
package storage
