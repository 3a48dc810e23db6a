// Package config provides configuration management for irisd.
//
// Configuration is loaded from environment variables using the env package.
// All values have defaults suitable for running next to a local
// iris_model.json artifact.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
