package pages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay lets editors finish atomic writes before the store reloads.
const reloadDelay = 200 * time.Millisecond

// Watch reloads the store whenever a page file or tenant directory changes,
// until ctx is done. onReload, if set, is called after every reload attempt.
func (s *Store) Watch(ctx context.Context, onReload func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating pages watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Warnf("failed to close pages watcher: %v", err)
		}
	}()

	if err := s.watchDirs(watcher); err != nil {
		return err
	}
	s.logger.Infof("watching %s for page changes", s.dir)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						s.logger.Warnf("failed to watch %s: %v", event.Name, err)
					}
				}
			}
			s.logger.Debugf("pages changed: %s (%s)", event.Name, event.Op)
			pending = time.After(reloadDelay)
		case <-pending:
			pending = nil
			err := s.Load()
			if err != nil {
				s.logger.Errorf("reloading pages: %v", err)
			} else {
				s.logger.Infof("pages reloaded")
			}
			if onReload != nil {
				onReload(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warnf("pages watcher error: %v", err)
		}
	}
}

func (s *Store) watchDirs(watcher *fsnotify.Watcher) error {
	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading pages directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := watcher.Add(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("watching %s: %w", e.Name(), err)
		}
	}
	return nil
}
