package core

import "errors"

var (
	ErrSearchInFlight  = errors.New("a search is already in progress")
	ErrSummaryInFlight = errors.New("a summary for this article is already being generated")
	ErrArticleNotFound = errors.New("article not found in current results")
	ErrNoContent       = errors.New("article has no text to summarize")
	ErrInvalidURL      = errors.New("article URL is not an http(s) link")
)
