package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient returns the shared client used for service-to-service
// calls. The timeout keeps a slow sibling from pinning request handlers.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
	}
}
