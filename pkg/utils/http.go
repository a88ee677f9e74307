// Package utils provides common utility functions.
package utils

import "net/http"

// DefaultUserAgent identifies the worker to the analytics API.
const DefaultUserAgent = "LlamaWorker/1.0"

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct {
	userAgent string
}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper(userAgent string) *HTTPHelper {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPHelper{userAgent: userAgent}
}

// IsSuccess reports whether an HTTP status code is 2xx.
func (h *HTTPHelper) IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// BuildHeaders creates JSON request headers with defaults.
func (h *HTTPHelper) BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	headers.Set("User-Agent", h.userAgent)
	headers.Set("Accept", "application/json")

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
