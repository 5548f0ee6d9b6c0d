// Package quote defines the domain types shared across the quotes engine.
package quote

// Quote is a single catalog quote. The engine never creates or deletes
// quotes, it only references them by their stable string id.
type Quote struct {
	// QuoteID is the stable string form of the catalog's numeric id.
	QuoteID string `json:"quoteId"`

	// Text is the quote body.
	Text string `json:"quote"`

	// Author is the attributed author.
	Author string `json:"author"`
}

// LikeSummary is the result of a like or unlike mutation: the counters as
// read inside the mutating transaction, plus whether anything changed.
type LikeSummary struct {
	QuoteID          string `json:"quoteId"`
	LikesCount       int64  `json:"likesCount"`
	ImpressionsCount int64  `json:"impressionsCount"`
	IsLiked          bool   `json:"isLiked"`
	Changed          bool   `json:"changed"`
}

// Page is one page of the catalog listing.
type Page struct {
	Quotes []Quote `json:"quotes"`
	Total  int     `json:"total"`
	Skip   int     `json:"skip"`
	Limit  int     `json:"limit"`
}
