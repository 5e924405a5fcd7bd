//go:build !gui

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/noveltts/noveltts/internal/app"
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

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "noveltts",
		Usage:   "Read PDF documents aloud with the current phrase highlighted",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			addCmd(),
			listCmd(),
			removeCmd(),
			resetCmd(),
		},
		ArgsUsage: "[file.pdf]",
		Action:    runTUI,
	}
}

// addCmd imports documents into the catalog without opening them.
func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add PDF documents to the catalog",
		ArgsUsage: "<file.pdf> [file.pdf...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("no files given")
			}
			return withCatalog(func(cat *catalog.Catalog) error {
				for _, arg := range c.Args().Slice() {
					location, err := absLocation(arg)
					if err != nil {
						return err
					}
					entry, err := cat.Append(location)
					if err != nil {
						return err
					}
					fmt.Printf("added %s\n", entry.Title())
				}
				return nil
			})
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "List catalog entries",
		Action: func(*cli.Context) error {
			return withCatalog(func(cat *catalog.Catalog) error {
				for i, entry := range cat.Entries() {
					fmt.Printf("%3d  %-30s %s\n", i+1, entry.Title(), entry.Location)
				}
				return nil
			})
		},
	}
}

// removeCmd removes by list position; runtime IDs are not stable across
// invocations so they are useless on the command line.
func removeCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove a catalog entry by its position (see ls)",
		ArgsUsage: "<position>",
		Action: func(c *cli.Context) error {
			var pos int
			if _, err := fmt.Sscanf(c.Args().First(), "%d", &pos); err != nil {
				return fmt.Errorf("position must be a number")
			}
			return withCatalog(func(cat *catalog.Catalog) error {
				entries := cat.Entries()
				if pos < 1 || pos > len(entries) {
					return fmt.Errorf("position %d out of range", pos)
				}
				return cat.Remove(entries[pos-1].ID)
			})
		},
	}
}

func resetCmd() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Factory reset: clear the catalog and restore default settings",
		Action: func(*cli.Context) error {
			if err := config.Save(config.DefaultPath(), config.Default()); err != nil {
				return err
			}
			return withCatalog(func(cat *catalog.Catalog) error {
				return cat.Clear()
			})
		},
	}
}

// withCatalog opens the store and a loaded catalog for one-shot commands.
func withCatalog(fn func(*catalog.Catalog) error) error {
	log, err := logger.New(kv.DefaultDir(), "noveltts.log")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Close()

	store, err := kv.OpenSQLite(kv.DefaultPath())
	if err != nil {
		return err
	}
	defer store.Close()

	cat := catalog.New(store, log)
	cat.Load()
	return fn(cat)
}

func runTUI(c *cli.Context) error {
	log, err := logger.New(kv.DefaultDir(), "noveltts.log")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Close()

	store, err := kv.OpenSQLite(kv.DefaultPath())
	if err != nil {
		return err
	}
	defer store.Close()

	cat := catalog.New(store, log)
	cat.Load()

	configPath := config.DefaultPath()
	settings, err := config.Load(configPath)
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

	openOnStart := ""
	if c.NArg() > 0 {
		location, err := absLocation(c.Args().First())
		if err != nil {
			return err
		}
		if _, err := cat.Append(location); err != nil {
			log.Warn("could not add %s to catalog: %v", location, err)
		}
		openOnStart = location
	}

	m := app.New(sess, cat, settings, configPath, openOnStart)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	sess.Close()
	return nil
}

func absLocation(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return abs, nil
}
