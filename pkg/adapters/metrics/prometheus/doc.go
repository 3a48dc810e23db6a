// Package prometheus records irisd metrics with the Prometheus client.
//
// Each Collector owns a registry, so several servers (as in tests) can run
// side by side without duplicate registration panics.
package prometheus
