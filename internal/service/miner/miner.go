package miner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/oshokin/miner-runner/internal/logger"
)

// signalExitCode is what os/exec reports when the child was terminated by a
// signal rather than exiting on its own. Such stops are intentional
// (operator interruption) and are suppressed instead of reported.
const signalExitCode = -1

// ErrInterrupted marks a run that was stopped by a signal. Callers treat it
// as an expected condition: no error notification is produced.
var ErrInterrupted = errors.New("miner interrupted")

// ExitError carries the raw non-zero exit code of a failed miner run so the
// error report can embed it verbatim.
type ExitError struct {
	// Code is the container's exit code.
	Code int
}

// Error renders the exit code for logs and notifications.
func (e *ExitError) Error() string {
	return fmt.Sprintf("miner exited with code %d", e.Code)
}

// Options describe a single container invocation.
type Options struct {
	// DataDir is the host directory holding repo/ and config.toml.
	DataDir string
	// Image is the container image to run.
	Image string
	// Network optionally overrides the container network.
	Network string
}

// Docker runs the miner image through the docker CLI.
type Docker struct {
	opts Options
}

// NewDocker creates a miner runner for the provided invocation options.
func NewDocker(opts Options) *Docker {
	return &Docker{opts: opts}
}

// RepoDir returns the host directory the miner writes artifacts into.
func RepoDir(dataDir string) string {
	return filepath.Join(dataDir, "repo")
}

// configPath returns the host path of the miner's own configuration file.
func configPath(dataDir string) string {
	return filepath.Join(dataDir, "config.toml")
}

// Args builds the docker CLI argument list for this invocation.
func (d *Docker) Args() []string {
	args := []string{
		"run", "--rm",
		"-v", RepoDir(d.opts.DataDir) + ":/data",
		"-v", configPath(d.opts.DataDir) + ":/app/config.toml",
	}

	if d.opts.Network != "" {
		args = append(args, "--network", d.opts.Network)
	}

	return append(args, d.opts.Image)
}

// Run invokes the container and blocks until it exits. It returns nil on
// exit code 0, ErrInterrupted when the container was killed by a signal and
// an *ExitError for any other non-zero code.
func (d *Docker) Run(ctx context.Context) error {
	args := d.Args()

	logger.InfoKV(ctx, "Running miner container", "image", d.opts.Image, "args", args)

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return classifyExit(exitErr.ExitCode())
	}

	return fmt.Errorf("run docker: %w", err)
}

// classifyExit maps a non-zero exit code to the wrapper's error taxonomy.
func classifyExit(code int) error {
	if code == signalExitCode {
		return ErrInterrupted
	}

	return &ExitError{Code: code}
}
