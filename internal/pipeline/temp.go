package pipeline

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
)

// tracker records scratch files created during a stitch so cleanup removes
// every one of them exactly once, including on early error returns.
type tracker struct {
	mu     sync.Mutex
	paths  []string
	logger *slog.Logger
	done   bool
}

func newTracker(logger *slog.Logger) *tracker {
	return &tracker{logger: logger}
}

func (t *tracker) add(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, path)
}

// cleanup removes all tracked files. Safe to call more than once; a file
// already gone is not an error worth logging.
func (t *tracker) cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return
	}
	t.done = true

	for _, path := range t.paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			t.logger.Warn("failed to remove scratch file", "path", path, "error", err)
		}
	}
}
