package playback

import (
	"fmt"
	"sync"

	"github.com/book-expert/logger"

	"github.com/noveltts/noveltts/internal/keepalive"
)

// Engine is the playback state machine. All state lives behind one mutex;
// synthesizer callbacks re-enter through generation-tagged methods so that
// progress from a cancelled utterance can never mutate current state.
type Engine struct {
	mu           sync.Mutex
	synth        Synthesizer
	keeper       keepalive.Acquirer
	log          *logger.Logger
	opts         Options
	phase        Phase
	highlight    Range
	hasHighlight bool
	lease        keepalive.Lease
	gen          uint64

	onUpdate   func()
	onFinished func()
}

// New creates an idle engine over the given synthesizer.
func New(synth Synthesizer, keeper keepalive.Acquirer, log *logger.Logger) *Engine {
	return &Engine{synth: synth, keeper: keeper, log: log}
}

// SetOptions sets the voice and rate used for subsequent utterances.
func (e *Engine) SetOptions(opts Options) {
	e.mu.Lock()
	e.opts = opts
	e.mu.Unlock()
}

// OnUpdate registers a callback invoked after any state change. It is called
// without the engine lock held.
func (e *Engine) OnUpdate(fn func()) {
	e.mu.Lock()
	e.onUpdate = fn
	e.mu.Unlock()
}

// OnFinished registers the auto-advance hook, invoked on natural completion
// of an utterance (never on cancel or stop).
func (e *Engine) OnFinished(fn func()) {
	e.mu.Lock()
	e.onFinished = fn
	e.mu.Unlock()
}

// Snapshot returns the current phase and highlight range. The bool is false
// when no range is highlighted.
func (e *Engine) Snapshot() (Phase, Range, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase, e.highlight, e.hasHighlight
}

// Speak cancels any in-flight utterance and starts a new one over text,
// transitioning to Speaking. It also acquires the keep-alive lease so audio
// continues while the app is in the background.
func (e *Engine) Speak(text string) error {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.phase = Speaking
	e.highlight = Range{}
	e.hasHighlight = false
	opts := e.opts
	needLease := e.lease == nil
	e.mu.Unlock()

	// The acquirer may do a bus round trip; never hold the lock across it.
	// The lease is installed only if this utterance is still current.
	if needLease {
		lease, err := e.keeper.Acquire("speech playback")
		if err != nil {
			e.log.Warn("playback: keep-alive unavailable: %v", err)
		} else {
			e.mu.Lock()
			current := e.gen == gen
			if current {
				e.lease = lease
			}
			e.mu.Unlock()
			if !current {
				lease.Release()
				return nil
			}
		}
	}

	e.synth.Cancel()
	if err := e.synth.Speak(text, opts, &speechDelegate{engine: e, gen: gen}); err != nil {
		e.mu.Lock()
		if e.gen == gen {
			e.phase = Idle
			e.releaseLeaseLocked()
		}
		e.mu.Unlock()
		e.notify()
		return fmt.Errorf("start speech: %w", err)
	}

	e.notify()
	return nil
}

// Pause suspends playback. Only effective while Speaking; the highlight is
// retained for resume.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.phase != Speaking {
		e.mu.Unlock()
		return
	}
	e.phase = Paused
	e.mu.Unlock()

	if err := e.synth.Pause(); err != nil {
		e.log.Warn("playback: pause: %v", err)
	}
	e.notify()
}

// Resume continues a paused utterance mid-text. Only effective while Paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.phase != Paused {
		e.mu.Unlock()
		return
	}
	e.phase = Speaking
	e.mu.Unlock()

	if err := e.synth.Resume(); err != nil {
		e.log.Warn("playback: resume: %v", err)
	}
	e.notify()
}

// Stop cancels the utterance immediately from any state: back to Idle,
// highlight cleared, lease released.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.gen++
	e.phase = Idle
	e.highlight = Range{}
	e.hasHighlight = false
	e.releaseLeaseLocked()
	e.mu.Unlock()

	e.synth.Cancel()
	e.notify()
}

// TogglePlayPause pauses while Speaking; otherwise it speaks text from the
// beginning with the highlight cleared first. Toggling out of Paused
// restarts the page rather than resuming mid-utterance; explicit Resume is
// the only way to continue where a pause left off.
func (e *Engine) TogglePlayPause(text string) {
	e.mu.Lock()
	speaking := e.phase == Speaking
	e.mu.Unlock()

	if speaking {
		e.Pause()
		return
	}
	if err := e.Speak(text); err != nil {
		e.log.Error("playback: toggle speak: %v", err)
	}
}

func (e *Engine) rangeWillSpeak(gen uint64, r Range) {
	e.mu.Lock()
	if gen != e.gen || e.phase != Speaking {
		e.mu.Unlock()
		return
	}
	e.highlight = r
	e.hasHighlight = true
	e.mu.Unlock()
	e.notify()
}

func (e *Engine) utteranceFinished(gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.phase = Idle
	e.highlight = Range{}
	e.hasHighlight = false
	e.releaseLeaseLocked()
	finished := e.onFinished
	e.mu.Unlock()

	e.notify()
	if finished != nil {
		finished()
	}
}

func (e *Engine) releaseLeaseLocked() {
	if e.lease != nil {
		e.lease.Release()
		e.lease = nil
	}
}

func (e *Engine) notify() {
	e.mu.Lock()
	update := e.onUpdate
	e.mu.Unlock()
	if update != nil {
		update()
	}
}

// speechDelegate forwards synthesizer callbacks into the engine, tagged with
// the utterance generation they belong to.
type speechDelegate struct {
	engine *Engine
	gen    uint64
}

func (d *speechDelegate) RangeWillSpeak(r Range) {
	d.engine.rangeWillSpeak(d.gen, r)
}

func (d *speechDelegate) UtteranceFinished() {
	d.engine.utteranceFinished(d.gen)
}
