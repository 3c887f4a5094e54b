package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/corey/tally/internal/domain/automaton"
	"github.com/corey/tally/internal/ports"
)

// Watch keeps live counts for a set of files. Each file owns one automaton
// session; a change resets that session and rescans the file, so the totals
// always describe the files' current contents.
type Watch struct {
	counter  *Counter
	watcher  ports.Watcher
	logger   *slog.Logger
	onUpdate func(*ports.Report)

	pubMu sync.Mutex // orders snapshot and onUpdate; taken before mu

	mu       sync.Mutex
	paths    []string // absolute, in caller order
	sessions map[string]*automaton.Session
}

// NewWatch creates a Watch. onUpdate receives the totals after the initial
// scan and after every rescan. Calls never overlap, and each report is at
// least as recent as the one before it. onUpdate may call Totals.
func NewWatch(c *Counter, w ports.Watcher, logger *slog.Logger, onUpdate func(*ports.Report)) *Watch {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watch{
		counter:  c,
		watcher:  w,
		logger:   logger,
		onUpdate: onUpdate,
		sessions: make(map[string]*automaton.Session),
	}
}

// Start scans every file once, publishes the totals and begins watching.
// Missing files count as empty until they appear.
func (w *Watch) Start(paths []string) error {
	w.mu.Lock()
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.mu.Unlock()
			return err
		}
		if _, dup := w.sessions[abs]; dup {
			continue
		}
		s, err := w.counter.ac.NewSession()
		if err != nil {
			w.mu.Unlock()
			return err
		}
		w.paths = append(w.paths, abs)
		w.sessions[abs] = s
		if err := w.rescanLocked(abs); err != nil {
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()

	w.publish()

	if err := w.watcher.Watch(w.paths, w.changed); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w.logger.Info("watching", "files", len(w.paths), "vocabulary", w.counter.Name())
	return nil
}

// Stop ends watching.
func (w *Watch) Stop() error {
	return w.watcher.Stop()
}

// Totals returns the current counts summed over all watched files.
func (w *Watch) Totals() *ports.Report {
	w.mu.Lock()
	defer w.mu.Unlock()

	totals := make([]int64, len(w.counter.patterns))
	var scanned int64
	for _, p := range w.paths {
		s := w.sessions[p]
		for id, n := range s.Counts() {
			totals[id] += n
		}
		scanned += s.Scanned()
	}
	return w.counter.report(w.paths, totals, scanned)
}

func (w *Watch) changed(path string) {
	w.mu.Lock()
	if _, ok := w.sessions[path]; !ok {
		w.mu.Unlock()
		return
	}
	err := w.rescanLocked(path)
	w.mu.Unlock()

	if err != nil {
		// Keep the previous counts of an unreadable file out of the totals;
		// rescanLocked already reset its session.
		w.logger.Warn("rescan failed", "file", path, "err", err)
	} else {
		w.logger.Info("rescanned", "file", path)
	}
	w.publish()
}

// rescanLocked resets the file's session and scans the file again. A file
// that does not exist counts as empty.
func (w *Watch) rescanLocked(path string) error {
	s := w.sessions[path]
	s.Reset()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := w.counter.scanInto(s, data); err != nil {
		s.Reset()
		return err
	}
	return nil
}

func (w *Watch) publish() {
	if w.onUpdate == nil {
		return
	}
	// Snapshot under pubMu so updates are published in snapshot order.
	w.pubMu.Lock()
	defer w.pubMu.Unlock()
	w.onUpdate(w.Totals())
}
