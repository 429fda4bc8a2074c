package guard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/miner-runner/internal/logger"
)

// ErrAlreadyRunning is returned when another instance of this executable is
// alive on the host.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Check scans the process list for another live process with the same
// executable name and fails when one is found.
func Check(ctx context.Context) error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	return checkProcesses(ctx, filepath.Base(executable), os.Getpid())
}

// checkProcesses is the testable core of Check.
func checkProcesses(ctx context.Context, executableName string, selfPID int) error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processes {
		if process.Pid() == selfPID {
			continue
		}

		if process.Executable() != executableName {
			continue
		}

		logger.WarnKV(ctx, "Duplicate instance detected", "pid", process.Pid(), "executable", executableName)

		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, process.Pid())
	}

	return nil
}
