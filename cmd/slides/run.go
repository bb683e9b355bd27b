package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/entrhq/slides/pkg/atlas"
	"github.com/entrhq/slides/pkg/config"
	"github.com/entrhq/slides/pkg/cursor"
	"github.com/entrhq/slides/pkg/executor/cli"
	"github.com/entrhq/slides/pkg/executor/tui"
	"github.com/entrhq/slides/pkg/logging"
	"github.com/entrhq/slides/pkg/playback"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
)

// errNoCollection is returned when no layer names a collection.
var errNoCollection = errors.New("no collection given: pass a collection id, set SLIDES_COLLECTION or use -profile")

// run executes the main application logic
func run(ctx context.Context, opts *Options, stdout io.Writer) error {
	// on error the logger falls back to stderr and says so
	logger, _ := logging.NewLogger("slides")
	defer logger.Close()
	logger.Infof("slides v%s starting", version)

	settings, err := resolveSettings(opts)
	if err != nil {
		return err
	}
	if level, err := logging.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if settings.Collection == "" {
		return errNoCollection
	}
	logger.Debugf("settings: %+v", settings)

	client := atlas.NewClient(
		atlas.WithEndpoint(settings.Endpoint),
		atlas.WithTimeout(settings.Timeout),
		atlas.WithUserAgent("slides/"+version),
		atlas.WithLogger(logger.With("atlas")),
	)

	if opts.Show != "" {
		return runShow(ctx, client, settings.Collection, opts.Show, stdout)
	}

	mapper, err := cursor.Parse(settings.Traversal)
	if err != nil {
		return err
	}
	schedOpts := []playback.Option{
		playback.WithInterval(settings.Interval),
		playback.WithPerPage(settings.PerPage),
		playback.WithMapper(mapper),
		playback.WithLogger(logger.With("playback")),
	}

	if opts.Plain || !isTerminal(stdout) {
		return runPlain(ctx, client, settings, stdout, schedOpts)
	}
	return runTUI(ctx, client, settings, logger, schedOpts)
}

// resolveSettings layers flags, environment, profile and the settings file.
func resolveSettings(opts *Options) (config.Settings, error) {
	if err := config.Initialize(opts.ConfigPath); err != nil {
		return config.Settings{}, fmt.Errorf("failed to initialize configuration: %w", err)
	}

	env, err := config.ParseEnv()
	if err != nil {
		return config.Settings{}, err
	}

	var profile *config.Profile
	if opts.Profile != "" {
		if profile, err = config.LoadProfile(opts.Profile); err != nil {
			return config.Settings{}, err
		}
	}

	return config.Resolve(config.FromManager(config.Global()), profile, env, opts.overrides())
}

// runShow prints a single item with its neighbours.
func runShow(ctx context.Context, client *atlas.Client, collectionID, contentID string, stdout io.Writer) error {
	c, err := client.FetchContent(ctx, collectionID, contentID)
	if err != nil {
		return err
	}
	cli.NewExecutor(cli.WithWriter(stdout), cli.WithColor(isTerminal(stdout))).Show(c)
	return nil
}

// runPlain plays the collection as text until ctx is cancelled or a fetch
// fails.
func runPlain(ctx context.Context, client *atlas.Client, settings config.Settings, stdout io.Writer, schedOpts []playback.Option) error {
	host := cli.NewExecutor(
		cli.WithWriter(stdout),
		cli.WithColor(isTerminal(stdout)),
		cli.WithProgress(true),
	)
	sched := playback.NewScheduler(client, host, append(schedOpts, playback.WithObserver(host))...)

	if err := sched.Start(ctx, settings.Collection); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		host.Fail(err)
		return err
	}
	return sched.Wait()
}

// runTUI runs the full screen host and the scheduler side by side. Quitting
// the UI stops playback; a playback error stays on screen until the user
// quits and is then returned.
func runTUI(ctx context.Context, client *atlas.Client, settings config.Settings, logger *logging.Logger, schedOpts []playback.Option) error {
	host := tui.NewExecutor(
		tui.WithLogger(logger.With("tui")),
		tui.WithAltScreen(settings.AltScreen),
		tui.WithMarkdown(settings.Markdown),
		tui.WithIndicators(settings.Indicators),
	)
	sched := playback.NewScheduler(client, host, append(schedOpts, playback.WithObserver(host))...)

	g, gctx := errgroup.WithContext(ctx)
	engineCtx, stopEngine := context.WithCancel(gctx)
	defer stopEngine()

	var engineErr error
	g.Go(func() error {
		defer stopEngine()
		return host.Run(gctx)
	})
	g.Go(func() error {
		if err := sched.Start(engineCtx, settings.Collection); err != nil {
			if engineCtx.Err() == nil {
				host.Fail(err)
				engineErr = err
			}
			return nil
		}
		engineErr = sched.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return engineErr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
