package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long Watch waits after the last write before calling
// onChange. Editors often write a file in several steps.
const DefaultSettle = 200 * time.Millisecond

// Watch calls onChange once writes to any of paths have settled. It watches
// the parent directories so that files replaced by rename are still seen.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, paths []string, settle time.Duration, onChange func()) error {
	if len(paths) == 0 {
		return errors.New("nothing to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		clean := filepath.Clean(p)
		targets[clean] = struct{}{}
		dirs[filepath.Dir(clean)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching config dir: %w", err)
		}
	}

	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if _, ok := targets[filepath.Clean(event.Name)]; !ok {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(settle)
		case <-timer.C:
			onChange()
		case err := <-watcher.Errors:
			return fmt.Errorf("config watcher error: %w", err)
		}
	}
}
