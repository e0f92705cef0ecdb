package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies for review endpoints.
	MaxRequestBody = 1 << 20
	// DefaultRequestTimeout bounds store calls made while serving one request.
	DefaultRequestTimeout = 5 * time.Second
)
