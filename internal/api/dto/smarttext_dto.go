package dto

import "github.com/spec-kit/site-safety-service/internal/smarttext"

// ProcessTextRequest carries the buffer and cursor after a keystroke.
type ProcessTextRequest struct {
	Text           string `json:"text"`
	CursorPosition int    `json:"cursor_position"`
}

// ProcessTextResponse returns the corrected buffer and how many
// corrections were applied.
type ProcessTextResponse struct {
	Text    string `json:"text"`
	Applied int    `json:"applied"`
}

// SuggestionsRequest asks for a full-buffer scan.
type SuggestionsRequest struct {
	Text string `json:"text"`
}

// SuggestionsResponse lists pending suggestions in buffer order.
type SuggestionsResponse struct {
	Suggestions []smarttext.Suggestion `json:"suggestions"`
}

// ApplySuggestionRequest applies one suggestion to the buffer.
type ApplySuggestionRequest struct {
	Text       string               `json:"text"`
	Suggestion smarttext.Suggestion `json:"suggestion"`
}

// ApplySuggestionResponse returns the rewritten buffer.
type ApplySuggestionResponse struct {
	Text string `json:"text"`
}

// DismissSuggestionRequest dismisses one suggestion for the session.
type DismissSuggestionRequest struct {
	Suggestion smarttext.Suggestion `json:"suggestion"`
}
