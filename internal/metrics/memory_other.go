//go:build !unix

package metrics

// PeakMemoryKiB returns the resident set size of the current process. Without
// getrusage there is no portable peak figure, so the current RSS is reported.
func PeakMemoryKiB() (uint64, error) {
	return CurrentMemoryKiB()
}
