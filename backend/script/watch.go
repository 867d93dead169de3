package script

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// watchDebounce groups the bursts of events editors emit when saving.
const watchDebounce = 100 * time.Millisecond

// Watch calls onChange every time the file at path is written, until ctx is
// done. The parent directory is watched so that files replaced by a rename
// are still followed.
func Watch(ctx context.Context, path string, log zerolog.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return xerrors.Errorf("failed to resolve %s: %v", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return xerrors.Errorf("failed to create watcher: %v", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return xerrors.Errorf("failed to watch %s: %v", filepath.Dir(abs), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			fire = timer.C
		case <-fire:
			fire = nil
			log.Info().Str("script", abs).Msg("script changed")
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}
