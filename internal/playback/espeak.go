package playback

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"github.com/book-expert/logger"
)

// espeak -s takes words per minute; this is its documented default, scaled
// by the rate option.
const espeakBaseWPM = 175

// ESpeak is a Synthesizer that shells out to the espeak-ng binary, speaking
// one phrase per process so it can report the span being vocalized before
// each one. Pause and resume suspend the active process with job-control
// signals; on platforms without them, pause degrades to cancel.
type ESpeak struct {
	mu     sync.Mutex
	binary string
	log    *logger.Logger

	cancel context.CancelFunc
	cmd    *exec.Cmd
	paused bool
}

// NewESpeak creates a synthesizer driving the "espeak-ng" binary.
func NewESpeak(log *logger.Logger) *ESpeak {
	return &ESpeak{binary: "espeak-ng", log: log}
}

// Available reports whether the espeak-ng binary can be found.
func (s *ESpeak) Available() bool {
	_, err := exec.LookPath(s.binary)
	return err == nil
}

// Speak starts vocalizing text on a background goroutine, phrase by phrase.
func (s *ESpeak) Speak(text string, opts Options, d Delegate) error {
	if _, err := exec.LookPath(s.binary); err != nil {
		return fmt.Errorf("speech synthesizer unavailable: %w", err)
	}

	s.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.paused = false
	s.mu.Unlock()

	go s.run(ctx, text, opts, d)
	return nil
}

func (s *ESpeak) run(ctx context.Context, text string, opts Options, d Delegate) {
	voice := opts.Voice
	if voice == "" {
		voice = "en"
	}
	rate := opts.Rate
	if rate <= 0 {
		rate = 1.0
	}
	wpm := strconv.Itoa(int(float64(espeakBaseWPM) * rate))

	for _, span := range phrases(text) {
		if ctx.Err() != nil {
			return
		}

		d.RangeWillSpeak(span)

		phrase := text[span.Offset : span.Offset+span.Length]
		cmd := exec.CommandContext(ctx, s.binary, "-v", voice, "-s", wpm, phrase)

		s.mu.Lock()
		// Cancel holds the same mutex while cancelling ctx, so checking it
		// here keeps a cancelled run from overwriting the command a newer
		// Speak has installed.
		if ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		s.cmd = cmd
		paused := s.paused
		s.mu.Unlock()

		if err := cmd.Start(); err != nil {
			s.log.Error("espeak: start: %v", err)
			return
		}
		if paused {
			// Pause landed between phrases; suspend before any audio.
			if err := suspendProcess(cmd.Process); err != nil {
				s.log.Warn("espeak: suspend: %v", err)
			}
		}

		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			s.log.Warn("espeak: %v", err)
		}
		if ctx.Err() != nil {
			return
		}
	}

	d.UtteranceFinished()
}

// Pause suspends the active phrase process, retaining its position.
func (s *ESpeak) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = true
	if s.cmd != nil && s.cmd.Process != nil {
		return suspendProcess(s.cmd.Process)
	}
	return nil
}

// Resume continues a suspended phrase process.
func (s *ESpeak) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = false
	if s.cmd != nil && s.cmd.Process != nil {
		return resumeProcess(s.cmd.Process)
	}
	return nil
}

// Cancel kills the active phrase process and stops the phrase loop. SIGKILL
// is delivered even to a suspended process, so a paused utterance dies too.
func (s *ESpeak) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.cmd = nil
	s.paused = false
}
