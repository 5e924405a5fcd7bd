package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	calls []string
}

func (h *recordingHandler) RemotePlay()      { h.calls = append(h.calls, "play") }
func (h *recordingHandler) RemotePause()     { h.calls = append(h.calls, "pause") }
func (h *recordingHandler) RemotePlayPause() { h.calls = append(h.calls, "playpause") }
func (h *recordingHandler) RemoteStop()      { h.calls = append(h.calls, "stop") }
func (h *recordingHandler) RemoteNext()      { h.calls = append(h.calls, "next") }
func (h *recordingHandler) RemotePrevious()  { h.calls = append(h.calls, "previous") }

func TestPlayerTransportRouting(t *testing.T) {
	h := &recordingHandler{}
	p := &playerObject{handler: h}

	require.Nil(t, p.Play())
	require.Nil(t, p.Pause())
	require.Nil(t, p.PlayPause())
	require.Nil(t, p.Stop())
	require.Nil(t, p.Next())
	require.Nil(t, p.Previous())

	// Stop in particular must not degrade to pause: an external stop ends
	// the utterance rather than suspending it.
	require.Equal(t,
		[]string{"play", "pause", "playpause", "stop", "next", "previous"},
		h.calls)
}
