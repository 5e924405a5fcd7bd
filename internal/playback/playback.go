// Package playback implements the speech playback state machine: a cycle
// over {idle, speaking, paused} driven by a speech synthesizer collaborator,
// tracking the sub-range of the page text currently being vocalized.
package playback

// Phase is the playback state.
type Phase int

const (
	Idle Phase = iota
	Speaking
	Paused
)

func (p Phase) String() string {
	switch p {
	case Speaking:
		return "speaking"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Range is a byte sub-range of the spoken text, used for highlighting.
type Range struct {
	Offset int
	Length int
}

// Options select the synthesizer voice and rate for an utterance.
type Options struct {
	Voice string
	Rate  float64
}

// Delegate receives progress notifications from a Synthesizer. Calls arrive
// on the synthesizer's own goroutine and are re-marshaled by the engine.
type Delegate interface {
	// RangeWillSpeak is invoked as the synthesizer begins vocalizing each
	// sub-span of the text, in the synthesizer's own segmentation.
	RangeWillSpeak(r Range)

	// UtteranceFinished is invoked once when the full text has been
	// vocalized. It is not invoked on cancel.
	UtteranceFinished()
}

// Synthesizer is the text-to-speech collaborator.
type Synthesizer interface {
	// Speak starts vocalizing text asynchronously, cancelling any
	// utterance still in flight. Progress is reported to d.
	Speak(text string, opts Options, d Delegate) error

	// Pause suspends the current utterance, retaining its position.
	Pause() error

	// Resume continues a paused utterance.
	Resume() error

	// Cancel stops the current utterance immediately. The delegate's
	// UtteranceFinished is not called for a cancelled utterance.
	Cancel()
}
