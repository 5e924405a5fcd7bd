package playback

import (
	"context"
	"sync"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/require"
)

// cancellingDelegate cancels the synthesizer from the progress callback,
// landing the cancel between the phrase loop's top-of-loop check and the
// command store.
type cancellingDelegate struct {
	s        *ESpeak
	mu       sync.Mutex
	finished bool
}

func (d *cancellingDelegate) RangeWillSpeak(Range) {
	d.s.Cancel()
}

func (d *cancellingDelegate) UtteranceFinished() {
	d.mu.Lock()
	d.finished = true
	d.mu.Unlock()
}

func (d *cancellingDelegate) wasFinished() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finished
}

func TestESpeakCancelledRunDoesNotStoreCommand(t *testing.T) {
	log, err := logger.New(t.TempDir(), "espeak-test.log")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	s := NewESpeak(log)
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	d := &cancellingDelegate{s: s}
	s.run(ctx, "first phrase. second phrase.", Options{}, d)

	// The run was cancelled before its first command started; nothing may
	// be left behind for Pause to signal, and completion must not fire.
	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()
	require.Nil(t, cmd)
	require.False(t, d.wasFinished())
}
