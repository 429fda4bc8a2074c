package runner

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/oshokin/miner-runner/internal/config"
	"github.com/oshokin/miner-runner/internal/domain/library"
	"github.com/oshokin/miner-runner/internal/logger"
	"github.com/oshokin/miner-runner/internal/repository/catalog"
	"github.com/oshokin/miner-runner/internal/service/indexer"
	"github.com/oshokin/miner-runner/internal/service/miner"
	"github.com/oshokin/miner-runner/internal/service/notifier"
)

// Options are inputs accepted by the runner entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// DataDir optionally overrides the configured data directory.
	DataDir string
}

// snapshotter takes point-in-time listings of the artifact directory.
type snapshotter interface {
	Snapshot(ctx context.Context) (library.Set, error)
}

// invoker runs the external miner process to completion.
type invoker interface {
	Run(ctx context.Context) error
}

// eventNotifier dispatches one notification event to an endpoint.
type eventNotifier interface {
	Notify(ctx context.Context, endpoint string, event notifier.Event)
}

// pageRenderer rewrites the index page for an artifact set.
type pageRenderer interface {
	Render(ctx context.Context, artifacts library.Set) error
}

// run holds the collaborators and mutable state of a single execution.
// It is intentionally unexported; call Run(ctx, *Options) from callers.
type run struct {
	cfg      *config.Config
	catalog  snapshotter
	miner    invoker
	notifier eventNotifier
	renderer pageRenderer
	state    State
}

// Run executes one miner invocation end to end and is the public entry
// point for the CLI. Recoverable failures are reported over the error
// webhook and swallowed; unrecoverable ones (snapshot I/O, template
// problems) are returned.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "miner-runner")

	cfg := config.LoadOrDefault(ctx, opts.ConfigPath)
	if opts.DataDir != "" {
		cfg.Runner.DataDir = opts.DataDir
	}

	repoDir := miner.RepoDir(cfg.Runner.DataDir)

	r := &run{
		cfg:     cfg,
		catalog: catalog.NewDirRepository(repoDir, indexer.IndexFilename),
		miner: miner.NewDocker(miner.Options{
			DataDir: cfg.Runner.DataDir,
			Image:   cfg.Runner.Image,
			Network: cfg.Runner.DockerNetwork,
		}),
		notifier: notifier.NewWebhook(cfg.Runner.HTTPTimeout),
		renderer: indexer.New(repoDir, cfg.Runner.IndexTemplate),
		state:    Idle,
	}

	return r.execute(ctx)
}

// execute drives the run state machine.
func (r *run) execute(ctx context.Context) error {
	before, err := r.catalog.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot before run: %w", err)
	}

	r.state = Running

	minerErr := r.miner.Run(ctx)

	switch {
	case minerErr == nil:
		r.state = Succeeded
		return r.finishSuccess(ctx, before)

	case errors.Is(minerErr, miner.ErrInterrupted):
		// Intentional stop: no notification, no index update.
		r.state = Suppressed
		logger.Info(ctx, "Miner interrupted, suppressing report")

		return nil

	default:
		r.state = Failed
		r.reportFailure(ctx, minerErr)

		return nil
	}
}

// finishSuccess diffs the snapshots, announces new artifacts and re-renders
// the index. Runs that produced nothing new finish quietly.
func (r *run) finishSuccess(ctx context.Context, before library.Set) error {
	after, err := r.catalog.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot after run: %w", err)
	}

	fresh := library.Diff(before, after)
	if fresh.Len() == 0 {
		logger.Info(ctx, "Miner finished, no new libraries")
		return nil
	}

	logger.InfoKV(ctx, "New libraries mined", "count", fresh.Len())

	r.notifier.Notify(ctx, r.cfg.Runner.AnnounceWebhook, notifier.Event{
		Title: "New libraries",
		Body:  announceBody(fresh, r.cfg.Runner.ListingURL),
		Color: notifier.ColorAnnounce,
	})

	if err = r.renderer.Render(ctx, after); err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	return nil
}

// reportFailure sends a single error notification. The raw exit code is
// embedded when the miner produced one; the run itself still completes.
func (r *run) reportFailure(ctx context.Context, minerErr error) {
	body := fmt.Sprintf("Unexpected error while running miner: `%v`", minerErr)

	var exitErr *miner.ExitError
	if errors.As(minerErr, &exitErr) {
		body = fmt.Sprintf("Unexpected error while running miner: `%d`", exitErr.Code)
	}

	logger.ErrorKV(ctx, "Miner run failed", "error", minerErr)

	r.notifier.Notify(ctx, r.cfg.Runner.ErrorWebhook, notifier.Event{
		Title: "Error",
		Body:  body,
		Color: notifier.ColorError,
	})
}

// announceBody lists new artifacts one per line, in version order, linking
// them against the listing URL when one is configured.
func announceBody(fresh library.Set, listingURL string) string {
	names := fresh.Sorted()
	lines := make([]string, 0, len(names))

	for _, name := range names {
		if listingURL == "" {
			lines = append(lines, "- "+name)
			continue
		}

		lines = append(lines, fmt.Sprintf("- [%s](%s)", name, joinURL(listingURL, name)))
	}

	return strings.Join(lines, "\n")
}

// joinURL appends a path segment to a base URL, normalizing slashes.
// A base that does not parse is used as a plain prefix.
func joinURL(base, segment string) string {
	parsed, err := url.Parse(base)
	if err != nil {
		return base + segment
	}

	parsed.Path = path.Join(parsed.Path, segment)

	return parsed.String()
}
