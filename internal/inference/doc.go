// Package inference turns flower measurements into species predictions.
//
// The Service is built once around an optional *classifier.Model. A nil
// model puts the service in degraded mode: it keeps answering, and every
// prediction fails with ErrModelNotLoaded.
package inference
