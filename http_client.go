package main

import (
	"net/http"
	"time"
)

const defaultExternalHTTPTimeout = 30 * time.Second

var externalHTTPClient = &http.Client{
	Timeout: defaultExternalHTTPTimeout,
}

// ApplyHTTPTimeout aligns the shared client with the configured timeout.
func ApplyHTTPTimeout(cfg Config) {
	externalHTTPClient.Timeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
}
