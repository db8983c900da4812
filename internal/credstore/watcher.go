package credstore

import (
	"context"
	"os"
	"time"
)

// DefaultWatchInterval is the poll period for credential-file changes.
const DefaultWatchInterval = time.Second

// Watcher observes the credential file for changes made by other
// processes. It is the storage-change notification of the slot: a login
// or logout in one process becomes visible here without that process
// cooperating. Polling (mtime and size) keeps it portable; only the
// credential file itself is watched.
type Watcher struct {
	path     string
	interval time.Duration
	changes  chan struct{}
}

// NewWatcher watches path. A non-positive interval uses
// DefaultWatchInterval.
func NewWatcher(path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		path:     path,
		interval: interval,
		changes:  make(chan struct{}, 1),
	}
}

// Changes delivers one (coalesced) signal per observed change,
// including the file appearing or disappearing.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	last, lastOK := w.stat()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur, curOK := w.stat()
			if curOK != lastOK || (curOK && cur != last) {
				last, lastOK = cur, curOK
				select {
				case w.changes <- struct{}{}:
				default:
				}
			}
		}
	}
}

// fileState is the comparable fingerprint of the watched file.
type fileState struct {
	modTime time.Time
	size    int64
}

func (w *Watcher) stat() (fileState, bool) {
	info, err := os.Stat(w.path)
	if err != nil {
		// Missing file is a valid state (logged out); other stat
		// failures are treated the same and resolve on the next poll.
		return fileState{}, false
	}
	return fileState{modTime: info.ModTime(), size: info.Size()}, true
}
