// Package session owns the reading/playback state for the one open document:
// the page cursor, the extracted page text, and the coupling between
// navigation and the playback engine. All mutable state is guarded by one
// mutex; extraction results and synthesizer callbacks re-enter through
// methods that take it, so only one logical owner ever mutates state.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/book-expert/logger"

	"github.com/noveltts/noveltts/internal/document"
	"github.com/noveltts/noveltts/internal/media"
	"github.com/noveltts/noveltts/internal/playback"
)

var (
	// ErrNoDocument is returned by navigation when nothing is open.
	ErrNoDocument = errors.New("session: no document open")

	// ErrOutOfRange is returned by GoTo for a page index outside
	// [0, PageCount-1]. The cursor is left unchanged.
	ErrOutOfRange = errors.New("session: page out of range")
)

// Session is the singleton reading session. One document is open at a time.
type Session struct {
	mu     sync.Mutex
	source document.Source
	engine *playback.Engine
	np     media.NowPlaying
	log    *logger.Logger

	doc       document.Document
	pageCount int
	page      int
	text      string

	events chan Event
}

// New wires a session over the document source and playback engine. The
// engine's completion hook becomes the auto-advance trigger and its state
// changes are republished as session events.
func New(source document.Source, engine *playback.Engine, log *logger.Logger) *Session {
	s := &Session{
		source: source,
		engine: engine,
		np:     media.Noop{},
		log:    log,
		events: make(chan Event, 64),
	}
	engine.OnFinished(s.autoAdvance)
	engine.OnUpdate(s.publishPlayback)
	return s
}

// SetNowPlaying attaches the now-playing surface. Must be called before any
// document is opened.
func (s *Session) SetNowPlaying(np media.NowPlaying) {
	s.mu.Lock()
	s.np = np
	s.mu.Unlock()
}

// Events is the stream consumed by the presentation layer.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Open loads the document at location, resets the cursor to page 0 and
// starts extraction for it. A document that cannot be parsed yields
// document.ErrUnreadable; the previous document (if any) is closed either
// way.
func (s *Session) Open(location string) error {
	s.engine.Stop()

	doc, err := s.source.Open(location)

	s.mu.Lock()
	if s.doc != nil {
		s.doc.Close()
		s.doc = nil
	}
	if err != nil {
		s.pageCount = 0
		s.page = 0
		s.text = ""
		s.mu.Unlock()
		return err
	}

	s.doc = doc
	s.pageCount = doc.PageCount()
	s.page = 0
	s.text = ""
	np := s.np
	title := doc.Title()
	pageCount := s.pageCount
	s.mu.Unlock()

	np.SetInfo(media.Info{Title: title, TrackURL: "file://" + location})
	np.SetStatus(media.StatusStopped)

	s.emit(Opened{Title: title, PageCount: pageCount})
	s.emit(PageChanged{Page: 0, PageCount: pageCount})
	s.startExtraction(doc, 0)
	return nil
}

// Close stops playback, releases the document and returns to the
// no-document state.
func (s *Session) Close() {
	s.engine.Stop()

	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return
	}
	s.doc.Close()
	s.doc = nil
	s.pageCount = 0
	s.page = 0
	s.text = ""
	np := s.np
	s.mu.Unlock()

	np.SetStatus(media.StatusStopped)
	s.emit(Closed{})
}

// GoTo moves the cursor to page, stopping any active playback and
// re-extracting text. Out-of-range targets leave the cursor unchanged.
func (s *Session) GoTo(page int) error {
	s.mu.Lock()
	doc := s.doc
	if doc == nil {
		s.mu.Unlock()
		return ErrNoDocument
	}
	if page < 0 || page >= s.pageCount {
		s.mu.Unlock()
		return ErrOutOfRange
	}
	s.mu.Unlock()

	// Stop before mutating the cursor so a late highlight from the old
	// page can never be applied against the new one.
	s.engine.Stop()

	s.mu.Lock()
	// Close or a concurrent Open can land while playback is stopping; the
	// cursor belongs to whatever document is current now, not the one
	// validated above.
	if s.doc != doc {
		s.mu.Unlock()
		return ErrNoDocument
	}
	s.page = page
	s.text = ""
	pageCount := s.pageCount
	s.mu.Unlock()

	s.emit(PageChanged{Page: page, PageCount: pageCount})
	s.startExtraction(doc, page)
	return nil
}

// Next advances one page. At the last page it is a deliberate no-op rather
// than an error.
func (s *Session) Next() {
	s.mu.Lock()
	page, count, open := s.page, s.pageCount, s.doc != nil
	s.mu.Unlock()

	if !open || page >= count-1 {
		return
	}
	if err := s.GoTo(page + 1); err != nil {
		s.log.Warn("session: next: %v", err)
	}
}

// Previous moves back one page; a no-op at the first page.
func (s *Session) Previous() {
	s.mu.Lock()
	page, open := s.page, s.doc != nil
	s.mu.Unlock()

	if !open || page <= 0 {
		return
	}
	if err := s.GoTo(page - 1); err != nil {
		s.log.Warn("session: previous: %v", err)
	}
}

// Page returns the current zero-based page index.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// PageCount returns the open document's page count, 0 when nothing is open.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageCount
}

// PageText returns the extracted text of the current page, "" while
// extraction is still in flight.
func (s *Session) PageText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Title returns the open document's display title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ""
	}
	return s.doc.Title()
}

// TogglePlayPause pauses while speaking; otherwise speaks the current page
// from the top.
func (s *Session) TogglePlayPause() {
	s.mu.Lock()
	open := s.doc != nil
	text := s.text
	s.mu.Unlock()

	if !open {
		return
	}
	if text == "" {
		// extraction still in flight; nothing to vocalize yet
		return
	}
	s.engine.TogglePlayPause(text)
}

// Pause suspends playback, retaining position for Resume.
func (s *Session) Pause() {
	s.engine.Pause()
}

// Resume continues a paused utterance mid-text.
func (s *Session) Resume() {
	s.engine.Resume()
}

// Stop cancels playback and clears the highlight.
func (s *Session) Stop() {
	s.engine.Stop()
}

// startExtraction dispatches page-text extraction to a worker goroutine.
// The request carries the page index it targets; applyText discards results
// whose tag no longer matches the cursor, so a slow extraction for an
// abandoned page can never overwrite a newer one.
func (s *Session) startExtraction(doc document.Document, page int) {
	go func() {
		text, err := doc.PageText(context.Background(), page)
		s.applyText(doc, page, text, err)
	}()
}

func (s *Session) applyText(doc document.Document, page int, text string, err error) {
	s.mu.Lock()
	if s.doc != doc || s.page != page {
		s.mu.Unlock()
		s.log.Info("session: discarding stale extraction for page %d", page)
		return
	}
	if err != nil {
		s.log.Warn("session: extraction failed for page %d: %v", page, err)
		text = ""
	}
	if strings.TrimSpace(text) == "" {
		text = document.PlaceholderText
	}
	s.text = text
	s.mu.Unlock()

	s.emit(TextUpdated{Page: page, Text: text})
}

// autoAdvance runs on natural utterance completion: move to the next page
// and extract it, or do nothing at the last page. It never loops and never
// closes the document.
func (s *Session) autoAdvance() {
	s.mu.Lock()
	if s.doc == nil || s.page >= s.pageCount-1 {
		s.mu.Unlock()
		return
	}
	s.page++
	s.text = ""
	page := s.page
	doc := s.doc
	pageCount := s.pageCount
	s.mu.Unlock()

	s.emit(PageChanged{Page: page, PageCount: pageCount})
	s.startExtraction(doc, page)
}

// publishPlayback mirrors engine state to the event stream and the
// now-playing surface.
func (s *Session) publishPlayback() {
	phase, highlight, has := s.engine.Snapshot()

	s.mu.Lock()
	np := s.np
	s.mu.Unlock()

	switch phase {
	case playback.Speaking:
		np.SetStatus(media.StatusPlaying)
	case playback.Paused:
		np.SetStatus(media.StatusPaused)
	default:
		np.SetStatus(media.StatusStopped)
	}

	s.emit(PlaybackChanged{Phase: phase, Highlight: highlight, HasHighlight: has})
}

// emit delivers an event without ever blocking the owner; if the consumer
// has fallen 64 events behind, the oldest update is dropped.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}

// RemotePlay implements media.Handler for external play triggers.
func (s *Session) RemotePlay() { s.Resume() }

// RemotePause implements media.Handler for external pause triggers.
func (s *Session) RemotePause() { s.Pause() }

// RemotePlayPause implements media.Handler.
func (s *Session) RemotePlayPause() { s.TogglePlayPause() }

// RemoteStop implements media.Handler; an external stop clears the highlight
// and returns to idle, same as a local one.
func (s *Session) RemoteStop() { s.Stop() }

// RemoteNext implements media.Handler.
func (s *Session) RemoteNext() { s.Next() }

// RemotePrevious implements media.Handler.
func (s *Session) RemotePrevious() { s.Previous() }
