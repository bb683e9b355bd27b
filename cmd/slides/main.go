// Package main provides the slides command: a terminal slideshow over an
// Atlas collection. Items are fetched page by page as playback reaches them
// and shown one at a time on a fixed interval.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/entrhq/slides/pkg/atlas"
	"github.com/entrhq/slides/pkg/config"
	"github.com/entrhq/slides/pkg/content"
	"github.com/entrhq/slides/pkg/cursor"
)

const version = "0.1.0" // Version of the slides command

// Options holds the command line configuration
type Options struct {
	Collection  string
	Endpoint    string
	PerPage     int
	Interval    time.Duration
	Timeout     time.Duration
	Traversal   string
	LogLevel    string
	Plain       bool
	Profile     string
	ConfigPath  string
	Show        string
	ShowVersion bool

	// set records which flags were given explicitly
	set map[string]bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if opts.ShowVersion {
		fmt.Printf("slides v%s\n", version)
		return
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if runErr := run(ctx, opts, os.Stdout); runErr != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "slides: %s\n", exitMessage(runErr))
		os.Exit(1)
	}
}

// parseFlags parses command line flags and the collection argument
func parseFlags(args []string, stderr io.Writer) (*Options, error) {
	opts := &Options{}
	fs := flag.NewFlagSet("slides", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.Endpoint, "endpoint", "", "Atlas GraphQL endpoint (or set SLIDES_ENDPOINT)")
	fs.IntVar(&opts.PerPage, "per", 0, "Items fetched per page (or set SLIDES_PER_PAGE)")
	fs.DurationVar(&opts.Interval, "interval", 0, "Delay between slides, e.g. 5s (or set SLIDES_INTERVAL)")
	fs.DurationVar(&opts.Timeout, "timeout", 0, "Per-request timeout (or set SLIDES_TIMEOUT)")
	fs.StringVar(&opts.Traversal, "traversal", "", "Traversal order: "+strings.Join(cursor.Names(), ", ")+" (or set SLIDES_TRAVERSAL)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Session log level: debug, info, warn, error (or set SLIDES_LOG_LEVEL)")
	fs.BoolVar(&opts.Plain, "plain", false, "Write slides as plain text instead of the full screen UI")
	fs.StringVar(&opts.Profile, "profile", "", "Path to a YAML profile with collection and overrides")
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to the settings file (default: ~/.slides/config.json)")
	fs.StringVar(&opts.Show, "show", "", "Print one content item of the collection and exit")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "slides - a terminal slideshow for Atlas collections\n\n")
		fmt.Fprintf(stderr, "Usage: slides [options] <collection-id>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(stderr, "  SLIDES_COLLECTION  Collection to play when no argument is given\n")
		fmt.Fprintf(stderr, "  SLIDES_ENDPOINT    Atlas GraphQL endpoint\n")
		fmt.Fprintf(stderr, "  SLIDES_PER_PAGE    Items fetched per page\n")
		fmt.Fprintf(stderr, "  SLIDES_INTERVAL    Delay between slides\n")
		fmt.Fprintf(stderr, "  SLIDES_TRAVERSAL   Traversal order\n")
		fmt.Fprintf(stderr, "  SLIDES_TIMEOUT     Per-request timeout\n")
		fmt.Fprintf(stderr, "  SLIDES_LOG_LEVEL   Session log level\n")
		fmt.Fprintf(stderr, "\nPrecedence: flags > environment > profile > settings file > defaults\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  slides atlas\n")
		fmt.Fprintf(stderr, "  slides -interval 2s -traversal wrap atlas\n")
		fmt.Fprintf(stderr, "  slides -plain atlas | tee slides.txt\n")
		fmt.Fprintf(stderr, "  slides -show 42 atlas\n")
		fmt.Fprintf(stderr, "  slides -profile road-trip.yaml\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.Collection = fs.Arg(0)
	default:
		fs.Usage()
		return nil, fmt.Errorf("expected one collection id, got %d arguments", fs.NArg())
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	return opts, nil
}

// overrides returns the flag layer: only flags given explicitly count.
func (o *Options) overrides() config.Overrides {
	ov := config.Overrides{Collection: o.Collection}
	if o.set["endpoint"] {
		ov.Endpoint = o.Endpoint
	}
	if o.set["per"] {
		ov.PerPage = o.PerPage
	}
	if o.set["interval"] {
		ov.Interval = o.Interval
	}
	if o.set["timeout"] {
		ov.Timeout = o.Timeout
	}
	if o.set["traversal"] {
		ov.Traversal = o.Traversal
	}
	if o.set["log-level"] {
		ov.LogLevel = o.LogLevel
	}
	return ov
}

// exitMessage renders err for the terminal.
func exitMessage(err error) string {
	var fetchErr *content.FetchError
	switch {
	case errors.Is(err, atlas.ErrContentNotFound):
		return "content not found"
	case errors.Is(err, content.ErrNotFound):
		return "collection not found"
	case errors.As(err, &fetchErr):
		return fmt.Sprintf("playback halted fetching page %d: %v", fetchErr.Page, fetchErr.Err)
	}
	return err.Error()
}
