package core

import (
	"github.com/amityadav/newsexplorer/internal/search"
	"github.com/amityadav/newsexplorer/internal/summarizer"
)

// View receives everything the Controller wants displayed. Implementations
// must not call back into the Controller.
type View interface {
	ShowArticles(articles []search.Article)
	ShowSearchError(err error)
	ShowSummary(articleID string, summary summarizer.Summary)
	ShowSummaryError(articleID string, err error)
	HideSummary(articleID string)
	SetSearchBusy(busy bool)
	SetSummaryBusy(articleID string, busy bool)
}
