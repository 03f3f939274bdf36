//go:build unix

package metrics

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PeakMemoryKiB returns the peak resident set size of the current process.
func PeakMemoryKiB() (uint64, error) {
	var usage unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &usage); err != nil {
		return 0, fmt.Errorf("failed to read resource usage: %w", err)
	}

	maxRSS := uint64(usage.Maxrss) //nolint:gosec // never negative
	// Darwin reports bytes, everything else kilobytes.
	if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
		maxRSS /= 1024
	}

	return maxRSS, nil
}
