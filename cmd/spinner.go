package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// progressRefreshRate is the spinner animation interval.
const progressRefreshRate = 100 * time.Millisecond

// Spinner abstracts the terminal spinner shown while lookups run.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix is safe to call while the spinner is rendering.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

// noopSpinner is used when stderr is not a terminal or verbose logs would
// interleave with the animation.
type noopSpinner struct{}

func (noopSpinner) Start()              {}
func (noopSpinner) Stop()               {}
func (noopSpinner) UpdateSuffix(string) {}

// newSpinner is a variable so tests can observe progress updates.
var newSpinner = func(w io.Writer, verbose bool) Spinner {
	file, ok := w.(*os.File)
	if verbose || !ok || !isTerminal(file) {
		return noopSpinner{}
	}

	return &realSpinner{s: spinner.New(spinner.CharSets[14], progressRefreshRate, spinner.WithWriter(file))}
}

func isTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// progress renders "done/total" lookups on a Spinner.
type progress struct {
	mu      sync.Mutex
	spinner Spinner
	done    int
}

func newProgress(s Spinner, total int) *progress {
	s.UpdateSuffix(fmt.Sprintf(" resolving 0/%d buildings", total))
	return &progress{spinner: s}
}

// Update is registered as the geocoding service progress callback.
func (p *progress) Update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Callbacks race; never move backwards.
	if done < p.done {
		return
	}
	p.done = done
	p.spinner.UpdateSuffix(fmt.Sprintf(" resolving %d/%d buildings", done, total))
}
