//go:build gui

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/book-expert/logger"

	"github.com/noveltts/noveltts/internal/catalog"
	"github.com/noveltts/noveltts/internal/config"
	"github.com/noveltts/noveltts/internal/document"
	"github.com/noveltts/noveltts/internal/keepalive"
	"github.com/noveltts/noveltts/internal/kv"
	"github.com/noveltts/noveltts/internal/media"
	"github.com/noveltts/noveltts/internal/playback"
	"github.com/noveltts/noveltts/internal/session"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type guiState struct {
	page      int
	pageCount int
	pageText  string
	highlight playback.Range
	hasRange  bool
	phase     playback.Phase
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "NovelTTS - PDF reader with speech playback\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  noveltts [options] [file.pdf]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("noveltts %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	log, err := logger.New(kv.DefaultDir(), "noveltts.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	store, err := kv.OpenSQLite(kv.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	cat := catalog.New(store, log)
	cat.Load()

	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Warn("settings unreadable, using defaults: %v", err)
		settings = config.Default()
	}

	var keeper keepalive.Acquirer = keepalive.Noop{}
	if logind, err := keepalive.NewLogind(); err == nil {
		keeper = logind
		defer logind.Close()
	} else {
		log.Warn("keep-alive unavailable: %v", err)
	}

	synth := playback.NewESpeak(log)
	if !synth.Available() {
		fmt.Fprintln(os.Stderr, "Warning: espeak-ng not found; playback will be unavailable.")
	}

	engine := playback.New(synth, keeper, log)
	engine.SetOptions(playback.Options{Voice: settings.Voice, Rate: settings.Rate})

	sess := session.New(document.PDFSource{}, engine, log)

	var np media.NowPlaying = media.Noop{}
	if mpris, err := media.NewMPRIS(sess); err == nil {
		np = mpris
	} else {
		log.Warn("media controls unavailable: %v", err)
	}
	defer np.Close()
	sess.SetNowPlaying(np)

	st := &guiState{}

	a := fyneapp.New()
	w := a.NewWindow("NovelTTS")

	// --- reader screen ---

	titleLabel := widget.NewLabel("")
	titleLabel.TextStyle.Bold = true
	statusLabel := widget.NewLabel("")
	body := widget.NewRichText()
	body.Wrapping = fyne.TextWrapWord
	bodyScroll := container.NewScroll(body)

	var showCatalog func()

	updateReader := func() {
		statusLabel.SetText(fmt.Sprintf("page %d/%d  [%s]", st.page+1, st.pageCount, st.phase))
		body.Segments = highlightSegments(st.pageText, st.highlight, st.hasRange)
		body.Refresh()
	}

	prevBtn := widget.NewButton("Prev", func() { sess.Previous() })
	playBtn := widget.NewButton("Play/Pause", func() { sess.TogglePlayPause() })
	stopBtn := widget.NewButton("Stop", func() { sess.Stop() })
	nextBtn := widget.NewButton("Next", func() { sess.Next() })
	backBtn := widget.NewButton("Library", func() { sess.Close() })
	transport := container.NewHBox(backBtn, prevBtn, playBtn, stopBtn, nextBtn)

	readerScreen := container.NewBorder(
		container.NewVBox(titleLabel, statusLabel),
		transport,
		nil, nil,
		bodyScroll,
	)

	// --- catalog screen ---

	entries := cat.Entries()
	catalogList := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject {
			return container.NewVBox(widget.NewLabel("Title"), widget.NewLabel("Location"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			vbox := obj.(*fyne.Container)
			titleLbl := vbox.Objects[0].(*widget.Label)
			locLbl := vbox.Objects[1].(*widget.Label)
			titleLbl.SetText(entries[id].Title())
			titleLbl.TextStyle.Bold = true
			locLbl.SetText(entries[id].Location)
		},
	)
	catalogList.OnSelected = func(id widget.ListItemID) {
		if id < len(entries) {
			location := entries[id].Location
			go sess.Open(location)
		}
		catalogList.UnselectAll()
	}

	catalogScreen := container.NewBorder(
		widget.NewLabel("Library - click a document to open it"),
		nil, nil, nil,
		catalogList,
	)

	showCatalog = func() {
		entries = cat.Entries()
		catalogList.Refresh()
		w.SetContent(catalogScreen)
	}

	// Session events arrive on background goroutines; marshal every UI
	// mutation back through fyne.Do.
	go func() {
		for ev := range sess.Events() {
			ev := ev
			fyne.Do(func() {
				switch ev := ev.(type) {
				case session.Opened:
					titleLabel.SetText(ev.Title)
					st.pageCount = ev.PageCount
					st.page = 0
					st.pageText = ""
					st.hasRange = false
					updateReader()
					w.SetContent(readerScreen)

				case session.Closed:
					showCatalog()

				case session.PageChanged:
					st.page = ev.Page
					st.pageCount = ev.PageCount
					st.pageText = ""
					st.hasRange = false
					updateReader()

				case session.TextUpdated:
					if ev.Page == st.page {
						st.pageText = ev.Text
						updateReader()
					}

				case session.PlaybackChanged:
					st.phase = ev.Phase
					st.highlight = ev.Highlight
					st.hasRange = ev.HasHighlight
					updateReader()
				}
			})
		}
	}()

	if flag.NArg() > 0 {
		location, err := filepath.Abs(flag.Arg(0))
		if err == nil {
			if _, err := cat.Append(location); err != nil {
				log.Warn("could not add %s to catalog: %v", location, err)
			}
			go sess.Open(location)
		}
	}

	showCatalog()
	w.Resize(fyne.NewSize(800, 600))
	w.SetOnClosed(func() { sess.Close() })
	w.ShowAndRun()
}

// highlightSegments renders the page text with the spoken span emphasized.
func highlightSegments(text string, r playback.Range, has bool) []widget.RichTextSegment {
	plain := func(s string) widget.RichTextSegment {
		return &widget.TextSegment{Text: s, Style: widget.RichTextStyleInline}
	}
	if !has || r.Length <= 0 || r.Offset < 0 || r.Offset+r.Length > len(text) {
		return []widget.RichTextSegment{plain(text)}
	}
	return []widget.RichTextSegment{
		plain(text[:r.Offset]),
		&widget.TextSegment{
			Text:  text[r.Offset : r.Offset+r.Length],
			Style: widget.RichTextStyleStrong,
		},
		plain(text[r.Offset+r.Length:]),
	}
}
