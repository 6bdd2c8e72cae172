// Package api provides the HTTP API server for the city guide QA system.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":5001")
	ListenAddr string
}
