package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/miner-runner/internal/config"
	"github.com/oshokin/miner-runner/internal/domain/library"
	"github.com/oshokin/miner-runner/internal/service/miner"
	"github.com/oshokin/miner-runner/internal/service/notifier"
)

var errTestSnapshot = errors.New("test snapshot error")

// fakeCatalog returns canned snapshots: first call gets before, later calls
// get after.
type fakeCatalog struct {
	before library.Set
	after  library.Set
	err    error
	calls  int
}

// Snapshot returns the next canned snapshot in sequence.
func (f *fakeCatalog) Snapshot(context.Context) (library.Set, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	if f.calls == 1 {
		return f.before, nil
	}

	return f.after, nil
}

// fakeMiner returns a canned run outcome.
type fakeMiner struct {
	err error
}

// Run reports the canned outcome without spawning anything.
func (f *fakeMiner) Run(context.Context) error {
	return f.err
}

// sentEvent records one Notify call.
type sentEvent struct {
	endpoint string
	event    notifier.Event
}

// fakeNotifier records every dispatched event.
type fakeNotifier struct {
	sent []sentEvent
}

// Notify records the call; like the real notifier it never fails the run.
func (f *fakeNotifier) Notify(_ context.Context, endpoint string, event notifier.Event) {
	f.sent = append(f.sent, sentEvent{endpoint: endpoint, event: event})
}

// fakeRenderer counts renders and remembers the last set.
type fakeRenderer struct {
	err      error
	rendered []library.Set
}

// Render records the artifact set it was asked to render.
func (f *fakeRenderer) Render(_ context.Context, artifacts library.Set) error {
	if f.err != nil {
		return f.err
	}

	f.rendered = append(f.rendered, artifacts)

	return nil
}

// testConfig returns a config with both webhooks configured.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Runner.AnnounceWebhook = "https://hooks.example.com/announce"
	cfg.Runner.ErrorWebhook = "https://hooks.example.com/error"

	return cfg
}

// newTestRun wires a run with the provided fakes.
func newTestRun(cfg *config.Config, cat *fakeCatalog, m *fakeMiner, n *fakeNotifier, rend *fakeRenderer) *run {
	return &run{
		cfg:      cfg,
		catalog:  cat,
		miner:    m,
		notifier: n,
		renderer: rend,
		state:    Idle,
	}
}

// TestRunSuccessWithNewArtifacts expects exactly one announcement and one
// index render when the miner succeeds and produced something new.
func TestRunSuccessWithNewArtifacts(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{
		before: library.NewSet("2020.1.1.zip"),
		after:  library.NewSet("2020.1.1.zip", "2021.3.5f1.zip"),
	}
	n := new(fakeNotifier)
	rend := new(fakeRenderer)

	r := newTestRun(testConfig(), cat, new(fakeMiner), n, rend)
	require.NoError(t, r.execute(context.Background()))
	require.Equal(t, Succeeded, r.state)

	// Exactly one announcement, on the announce channel.
	require.Len(t, n.sent, 1)
	require.Equal(t, "https://hooks.example.com/announce", n.sent[0].endpoint)
	require.Equal(t, "New libraries", n.sent[0].event.Title)
	require.Contains(t, n.sent[0].event.Body, "2021.3.5f1")
	require.NotContains(t, n.sent[0].event.Body, "2020.1.1")

	// Exactly one render, covering the full after set.
	require.Len(t, rend.rendered, 1)
	require.Equal(t, 2, rend.rendered[0].Len())
}

// TestRunSuccessWithoutNewArtifacts finishes quietly: no notification, no render.
func TestRunSuccessWithoutNewArtifacts(t *testing.T) {
	t.Parallel()

	same := library.NewSet("2020.1.1.zip")
	cat := &fakeCatalog{before: same, after: same}
	n := new(fakeNotifier)
	rend := new(fakeRenderer)

	r := newTestRun(testConfig(), cat, new(fakeMiner), n, rend)
	require.NoError(t, r.execute(context.Background()))
	require.Equal(t, Succeeded, r.state)
	require.Empty(t, n.sent)
	require.Empty(t, rend.rendered)
}

// TestRunInterruptedIsSuppressed expects zero notifications for a
// signal-terminated miner.
func TestRunInterruptedIsSuppressed(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{before: library.NewSet()}
	n := new(fakeNotifier)
	rend := new(fakeRenderer)

	r := newTestRun(testConfig(), cat, &fakeMiner{err: miner.ErrInterrupted}, n, rend)
	require.NoError(t, r.execute(context.Background()))
	require.Equal(t, Suppressed, r.state)
	require.Empty(t, n.sent)
	require.Empty(t, rend.rendered)
}

// TestRunFailureReportsExitCode expects exactly one error notification
// embedding the raw exit code and no index update, while the run itself
// still completes without error.
func TestRunFailureReportsExitCode(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{before: library.NewSet()}
	n := new(fakeNotifier)
	rend := new(fakeRenderer)

	r := newTestRun(testConfig(), cat, &fakeMiner{err: &miner.ExitError{Code: 125}}, n, rend)
	require.NoError(t, r.execute(context.Background()))
	require.Equal(t, Failed, r.state)

	require.Len(t, n.sent, 1)
	require.Equal(t, "https://hooks.example.com/error", n.sent[0].endpoint)
	require.Equal(t, "Error", n.sent[0].event.Title)
	require.Contains(t, n.sent[0].event.Body, "`125`")
	require.Empty(t, rend.rendered)
}

// TestRunSnapshotFailureIsFatal propagates snapshot I/O errors.
func TestRunSnapshotFailureIsFatal(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{err: errTestSnapshot}
	r := newTestRun(testConfig(), cat, new(fakeMiner), new(fakeNotifier), new(fakeRenderer))

	err := r.execute(context.Background())
	require.ErrorIs(t, err, errTestSnapshot)
}

// TestRunRenderFailureIsFatal propagates template problems after the
// announcement has already gone out.
func TestRunRenderFailureIsFatal(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{
		before: library.NewSet(),
		after:  library.NewSet("2021.3.5f1.zip"),
	}
	rendErr := errors.New("template missing")

	r := newTestRun(testConfig(), cat, new(fakeMiner), new(fakeNotifier), &fakeRenderer{err: rendErr})

	err := r.execute(context.Background())
	require.ErrorIs(t, err, rendErr)
}

// TestAnnounceBody checks the plain and linked listing shapes.
func TestAnnounceBody(t *testing.T) {
	t.Parallel()

	fresh := library.NewSet("2021.3.10a2.zip", "2021.3.5f1.zip")

	require.Equal(t, "- 2021.3.5f1\n- 2021.3.10a2", announceBody(fresh, ""))
	require.Equal(t,
		"- [2021.3.5f1](https://libs.example.com/2021.3.5f1)\n- [2021.3.10a2](https://libs.example.com/2021.3.10a2)",
		announceBody(fresh, "https://libs.example.com/"))
}
