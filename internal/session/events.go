package session

import "github.com/noveltts/noveltts/internal/playback"

// Event is a state-change notification consumed by the presentation layer.
type Event interface{}

// Opened is emitted when a document is successfully opened.
type Opened struct {
	Title     string
	PageCount int
}

// Closed is emitted when the session returns to the no-document state.
type Closed struct{}

// PageChanged is emitted whenever the page cursor moves; the page's text
// arrives later in a TextUpdated event.
type PageChanged struct {
	Page      int
	PageCount int
}

// TextUpdated carries the extracted text for a page once extraction lands.
type TextUpdated struct {
	Page int
	Text string
}

// PlaybackChanged mirrors the playback engine's phase and highlight.
type PlaybackChanged struct {
	Phase        playback.Phase
	Highlight    playback.Range
	HasHighlight bool
}
