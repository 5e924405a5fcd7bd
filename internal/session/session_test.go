package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/require"

	"github.com/noveltts/noveltts/internal/document"
	"github.com/noveltts/noveltts/internal/keepalive"
	"github.com/noveltts/noveltts/internal/playback"
)

const waitFor = 2 * time.Second

// fakeDoc serves scripted page text. Individual pages can be gated so tests
// can hold an extraction in flight.
type fakeDoc struct {
	mu        sync.Mutex
	pages     []string
	gates     map[int]chan struct{}
	requested []int
	closed    bool
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) PageText(_ context.Context, page int) (string, error) {
	d.mu.Lock()
	d.requested = append(d.requested, page)
	gate := d.gates[page]
	d.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return d.pages[page], nil
}

func (d *fakeDoc) Title() string    { return "fake" }
func (d *fakeDoc) Location() string { return "/fake.pdf" }

func (d *fakeDoc) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDoc) requestedPages() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.requested...)
}

type fakeSource struct {
	doc *fakeDoc
	err error
}

func (s *fakeSource) Open(string) (document.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

// fakeSynth hands the test its delegate so completion and progress can be
// driven by hand.
type fakeSynth struct {
	mu       sync.Mutex
	delegate playback.Delegate
	spoken   []string
}

func (f *fakeSynth) Speak(text string, _ playback.Options, d playback.Delegate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delegate = d
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSynth) Pause() error  { return nil }
func (f *fakeSynth) Resume() error { return nil }
func (f *fakeSynth) Cancel()       {}

func (f *fakeSynth) lastDelegate() playback.Delegate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.delegate
}

// hookedSynth runs a configured hook (once) when the engine cancels it, so
// tests can land session calls inside another operation's stop window.
type hookedSynth struct {
	mu       sync.Mutex
	onCancel func()
}

func (f *hookedSynth) Speak(string, playback.Options, playback.Delegate) error { return nil }
func (f *hookedSynth) Pause() error                                            { return nil }
func (f *hookedSynth) Resume() error                                           { return nil }

func (f *hookedSynth) Cancel() {
	f.mu.Lock()
	fn := f.onCancel
	f.onCancel = nil
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (f *hookedSynth) setOnCancel(fn func()) {
	f.mu.Lock()
	f.onCancel = fn
	f.mu.Unlock()
}

func newTestSession(t *testing.T, src document.Source) (*Session, *fakeSynth) {
	t.Helper()
	log, err := logger.New(t.TempDir(), "session-test.log")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	synth := &fakeSynth{}
	engine := playback.New(synth, keepalive.Noop{}, log)
	return New(src, engine, log), synth
}

func fivePages() *fakeDoc {
	return &fakeDoc{pages: []string{
		"page zero text.", "page one text.", "page two text.",
		"page three text.", "page four text.",
	}}
}

func waitForText(t *testing.T, s *Session, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.PageText() == want
	}, waitFor, 5*time.Millisecond)
}

func TestOpenResetsCursorAndExtracts(t *testing.T) {
	doc := fivePages()
	sess, _ := newTestSession(t, &fakeSource{doc: doc})

	require.NoError(t, sess.Open("/fake.pdf"))
	require.Equal(t, 5, sess.PageCount())
	require.Equal(t, 0, sess.Page())
	waitForText(t, sess, "page zero text.")
}

func TestOpenUnreadable(t *testing.T) {
	sess, _ := newTestSession(t, &fakeSource{err: document.ErrUnreadable})

	err := sess.Open("/broken.pdf")
	require.ErrorIs(t, err, document.ErrUnreadable)
	require.Equal(t, 0, sess.PageCount())
}

func TestGoToOutOfRangeLeavesStateUnchanged(t *testing.T) {
	doc := fivePages()
	sess, _ := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))
	waitForText(t, sess, "page zero text.")

	require.ErrorIs(t, sess.GoTo(10), ErrOutOfRange)
	require.ErrorIs(t, sess.GoTo(-1), ErrOutOfRange)
	require.Equal(t, 0, sess.Page())
	require.Equal(t, "page zero text.", sess.PageText())
}

func TestGoToValidPageExtracts(t *testing.T) {
	doc := fivePages()
	sess, _ := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))

	require.NoError(t, sess.GoTo(4))
	require.Equal(t, 4, sess.Page())
	waitForText(t, sess, "page four text.")
	require.Contains(t, doc.requestedPages(), 4)
}

func TestNextAndPreviousEdgesAreNoops(t *testing.T) {
	doc := fivePages()
	sess, _ := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))

	sess.Previous()
	require.Equal(t, 0, sess.Page())

	require.NoError(t, sess.GoTo(4))
	sess.Next()
	require.Equal(t, 4, sess.Page())
}

func TestNavigationStopsPlayback(t *testing.T) {
	doc := fivePages()
	sess, synth := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))
	waitForText(t, sess, "page zero text.")

	sess.TogglePlayPause()
	synth.lastDelegate().RangeWillSpeak(playback.Range{Offset: 0, Length: 4})

	require.NoError(t, sess.GoTo(2))

	engine := sessEngine(sess)
	phase, _, has := engine.Snapshot()
	require.Equal(t, playback.Idle, phase)
	require.False(t, has)
}

func TestAutoAdvanceMovesToNextPage(t *testing.T) {
	doc := fivePages()
	sess, synth := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))
	waitForText(t, sess, "page zero text.")

	sess.TogglePlayPause()
	synth.lastDelegate().UtteranceFinished()

	require.Equal(t, 1, sess.Page())
	waitForText(t, sess, "page one text.")
}

func TestAutoAdvanceAtLastPageIsNoop(t *testing.T) {
	doc := fivePages()
	sess, synth := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))

	require.NoError(t, sess.GoTo(4))
	waitForText(t, sess, "page four text.")

	sess.TogglePlayPause()
	synth.lastDelegate().UtteranceFinished()

	require.Equal(t, 4, sess.Page())
}

func TestStaleExtractionDiscarded(t *testing.T) {
	gate := make(chan struct{})
	doc := fivePages()
	doc.gates = map[int]chan struct{}{1: gate}
	sess, _ := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))
	waitForText(t, sess, "page zero text.")

	// Extraction for page 1 stalls; the user navigates on to page 2.
	require.NoError(t, sess.GoTo(1))
	require.NoError(t, sess.GoTo(2))
	waitForText(t, sess, "page two text.")

	// The slow result for page 1 lands after page 2 is current and must
	// be discarded.
	close(gate)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 2, sess.Page())
	require.Equal(t, "page two text.", sess.PageText())
}

func TestEmptyPageYieldsPlaceholder(t *testing.T) {
	doc := &fakeDoc{pages: []string{"  \n "}}
	sess, _ := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))
	waitForText(t, sess, document.PlaceholderText)
}

func TestTogglePlayPauseWithoutTextIsNoop(t *testing.T) {
	gate := make(chan struct{})
	doc := fivePages()
	doc.gates = map[int]chan struct{}{0: gate}
	sess, synth := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))

	// Extraction has not landed; there is nothing to speak yet.
	sess.TogglePlayPause()
	require.Nil(t, synth.lastDelegate())
	close(gate)
}

func TestCloseReleasesDocument(t *testing.T) {
	doc := fivePages()
	sess, _ := newTestSession(t, &fakeSource{doc: doc})
	require.NoError(t, sess.Open("/fake.pdf"))

	sess.Close()
	require.Equal(t, 0, sess.PageCount())
	require.Equal(t, "", sess.PageText())

	doc.mu.Lock()
	closed := doc.closed
	doc.mu.Unlock()
	require.True(t, closed)
}

func TestGoToRacingCloseDoesNotPanic(t *testing.T) {
	log, err := logger.New(t.TempDir(), "session-test.log")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	doc := fivePages()
	synth := &hookedSynth{}
	engine := playback.New(synth, keepalive.Noop{}, log)
	sess := New(&fakeSource{doc: doc}, engine, log)

	require.NoError(t, sess.Open("/fake.pdf"))
	waitForText(t, sess, "page zero text.")

	// Close lands while GoTo is stopping playback, after validation but
	// before the cursor moves. Navigation must bail out, not dereference
	// the released document.
	synth.setOnCancel(func() { sess.Close() })

	require.ErrorIs(t, sess.GoTo(2), ErrNoDocument)
	require.Equal(t, 0, sess.PageCount())
	require.Equal(t, "", sess.PageText())

	doc.mu.Lock()
	closed := doc.closed
	doc.mu.Unlock()
	require.True(t, closed)
}

func TestNextRacingCloseDoesNotPanic(t *testing.T) {
	log, err := logger.New(t.TempDir(), "session-test.log")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	doc := fivePages()
	synth := &hookedSynth{}
	engine := playback.New(synth, keepalive.Noop{}, log)
	sess := New(&fakeSource{doc: doc}, engine, log)

	require.NoError(t, sess.Open("/fake.pdf"))
	waitForText(t, sess, "page zero text.")

	synth.setOnCancel(func() { sess.Close() })
	sess.Next()
	require.Equal(t, 0, sess.PageCount())
}

// sessEngine exposes the engine for state assertions.
func sessEngine(s *Session) *playback.Engine {
	return s.engine
}
