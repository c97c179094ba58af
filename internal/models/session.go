package models

import "time"

// Session source types.
const (
	SourceAudio    = "audio"
	SourceDocument = "document"
	SourceYouTube  = "youtube"
)

// Session lifecycle statuses. A session is created on upload, becomes
// transcribed once its transcript is stored, and summarized once a summary
// lands. There is no explicit terminal state.
const (
	StatusCreated     = "created"
	StatusTranscribed = "transcribed"
	StatusSummarized  = "summarized"
)

// Session represents one ingested content unit (an uploaded audio file,
// document, or YouTube video) tracked through its processing stages.
type Session struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	SourceType string    `json:"source_type"`
	SourceURL  string    `json:"source_url,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Status     string    `json:"status"`
	CardCount  int       `json:"card_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidSourceType reports whether s is a known session source type.
func ValidSourceType(s string) bool {
	switch s {
	case SourceAudio, SourceDocument, SourceYouTube:
		return true
	}
	return false
}

// SessionFilter narrows session list queries.
type SessionFilter struct {
	SourceType string
	Status     string
	Limit      int
	Offset     int
	OrderBy    string
	OrderDir   string
}
