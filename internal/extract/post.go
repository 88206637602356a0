package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// UnknownAuthor is used when a record carries no handle.
	UnknownAuthor = "@unknown"
	// SummaryAuthor marks the fallback record built from unparsed text. The
	// hyphen makes it impossible as a real X handle.
	SummaryAuthor = "@grok-summary"
	// SummaryTimestamp is the timestamp of the fallback record.
	SummaryTimestamp = "Now"

	// ContentCap bounds content taken from structured items and patterns.
	ContentCap = 500
	// SummaryCap bounds the content of the fallback record.
	SummaryCap = 800
	// Ellipsis is appended to truncated content.
	Ellipsis = "..."

	permalinkPrefix = "https://x.com/i/status/"
)

// Post is one normalized X post recovered from a provider response.
type Post struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Likes     int    `json:"likes"`
	Reposts   int    `json:"reposts"`
	URL       string `json:"url"`
}

// Permalink returns the canonical status URL for id, or "" when id is blank.
func Permalink(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	return permalinkPrefix + id
}

// NormalizeHandle strips any leading '@' and re-adds exactly one.
func NormalizeHandle(h string) string {
	h = strings.TrimLeft(strings.TrimSpace(h), "@")
	if h == "" {
		return UnknownAuthor
	}
	return "@" + h
}

// Truncate cuts s to at most limit runes and appends Ellipsis when it did.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit]) + Ellipsis
}

// cleanText normalizes to NFC, trims whitespace and caps the length.
func cleanText(s string, limit int) string {
	return Truncate(strings.TrimSpace(norm.NFC.String(s)), limit)
}

func summaryPost(text string) Post {
	return Post{
		Author:    SummaryAuthor,
		Content:   cleanText(text, SummaryCap),
		Timestamp: SummaryTimestamp,
	}
}
