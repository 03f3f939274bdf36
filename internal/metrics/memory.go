package metrics

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// CurrentMemoryKiB returns the resident set size of the current process.
func CurrentMemoryKiB() (uint64, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // pid fits
	if err != nil {
		return 0, fmt.Errorf("failed to inspect process: %w", err)
	}

	info, err := proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("failed to read process memory: %w", err)
	}

	return info.RSS / 1024, nil
}
