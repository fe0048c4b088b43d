package ui

import (
	"errors"

	"github.com/amityadav/newsexplorer/internal/core"
	"github.com/amityadav/newsexplorer/internal/search"
	"github.com/amityadav/newsexplorer/internal/summarizer"
)

// Message turns an error into the text shown to the user
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, search.ErrAuth):
		return "Invalid or missing News API key. Set NEWSAPI_KEY in your environment or .env file."
	case errors.Is(err, search.ErrEmptyResult):
		return "No articles found matching your criteria."
	case errors.Is(err, search.ErrRateLimited):
		return "News API request limit reached. Please try again later."
	case errors.Is(err, search.ErrNetwork):
		return "Could not reach the news service. Check your internet connection and try again."
	case errors.Is(err, search.ErrUnsupported):
		return "The configured news provider does not offer top headlines."
	case errors.Is(err, search.ErrUpstream):
		return "The news service rejected the request: " + err.Error()
	case errors.Is(err, summarizer.ErrModelUnavailable):
		return "AI summary unavailable: the summarization model could not be loaded. " + err.Error()
	case errors.Is(err, summarizer.ErrInference):
		return "AI Error: could not generate a summary."
	case errors.Is(err, core.ErrNoContent):
		return "This article has no text to summarize."
	default:
		return err.Error()
	}
}
