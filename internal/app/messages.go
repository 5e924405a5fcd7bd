package app

import "github.com/noveltts/noveltts/internal/session"

// sessionEventMsg wraps a streamed event from the reading session.
type sessionEventMsg struct {
	Event session.Event
}

// openResultMsg carries the outcome of opening a document.
type openResultMsg struct {
	Err error
}
