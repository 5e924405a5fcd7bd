// Package media exposes the now-playing / remote-control surface. External
// play and pause triggers route back into the playback engine through the
// Handler.
package media

// Status mirrors the playback phase for external consumers.
type Status string

const (
	StatusPlaying Status = "Playing"
	StatusPaused  Status = "Paused"
	StatusStopped Status = "Stopped"
)

// Info describes the open document for the now-playing surface.
type Info struct {
	Title    string
	TrackURL string
}

// Handler receives remote transport commands.
type Handler interface {
	RemotePlay()
	RemotePause()
	RemotePlayPause()
	RemoteStop()
	RemoteNext()
	RemotePrevious()
}

// NowPlaying publishes playback metadata and status.
type NowPlaying interface {
	SetInfo(info Info)
	SetStatus(status Status)
	Close() error
}

// Noop is used when no media surface is reachable.
type Noop struct{}

func (Noop) SetInfo(Info)     {}
func (Noop) SetStatus(Status) {}
func (Noop) Close() error     { return nil }
