package search

import "errors"

// Search errors. Providers wrap one of these so callers can classify with errors.Is.
var (
	ErrNetwork     = errors.New("news service unreachable")
	ErrAuth        = errors.New("news API key missing or invalid")
	ErrEmptyResult = errors.New("no articles found")
	ErrRateLimited = errors.New("news API request limit reached")
	ErrUpstream    = errors.New("news API rejected the request")
	ErrUnsupported = errors.New("operation not supported by news provider")
)
