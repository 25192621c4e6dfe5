package session

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ArtifactWatcher watches a tool's workdir for the appearance of a
// transcript file, so progress-reporting glue can learn that a backend
// has started producing output without polling the filesystem while the
// watchdog timer runs. Adapted from the teacher's pkg/watchdog, narrowed
// from a general crash-file watcher (filter + forward-everything) to a
// single-directory, single-shot wait.
type ArtifactWatcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	found   chan string
}

// NewArtifactWatcher starts watching dir (which must already exist) and
// reports the first Create/Write event whose base name equals name on the
// returned channel, then stops. An empty name matches the first event for
// any file, useful for "something is happening in this workdir" progress
// signals when the caller doesn't know which file a backend writes first.
// The watcher is closed when ctx is done.
func NewArtifactWatcher(ctx context.Context, logger *zap.Logger, dir, name string) (*ArtifactWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	aw := &ArtifactWatcher{watcher: w, logger: logger, found: make(chan string, 1)}
	go aw.run(ctx, name)
	return aw, nil
}

func (a *ArtifactWatcher) run(ctx context.Context, name string) {
	defer a.watcher.Close()
	defer close(a.found)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-a.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if name != "" && filepath.Base(event.Name) != name {
				continue
			}
			select {
			case a.found <- event.Name:
			default:
			}
			return
		case err, ok := <-a.watcher.Errors:
			if !ok {
				return
			}
			a.logger.Debug("artifact watcher error", zap.Error(err))
		}
	}
}

// Found returns the channel that receives the matched artifact's path
// exactly once, then is never sent to again.
func (a *ArtifactWatcher) Found() <-chan string { return a.found }
