// Package api provides the HTTP API server for the quotes engine.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// CookieSecret is the base64 key for cookie encryption. A fresh key is
	// generated when empty.
	CookieSecret string

	// SimilarMaxLimit is the hard cap for a similar-quotes batch size.
	SimilarMaxLimit int
}
