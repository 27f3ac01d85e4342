package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// seedDebounce coalesces the burst of events editors emit on save.
const seedDebounce = 300 * time.Millisecond

// WatchSeed imports new entries from path whenever it changes, until ctx is
// done. Existing ids are skipped, so edits to curated prompts require a new id.
func (c *Catalog) WatchSeed(ctx context.Context, loader *SeedLoader, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// watch the directory: editors replace files by rename
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		var timer *time.Timer
		var fire <-chan time.Time
		target := filepath.Clean(path)
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(seedDebounce)
				} else {
					timer.Reset(seedDebounce)
				}
				fire = timer.C
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Warn("seed watcher error", "error", err)
			case <-fire:
				fire = nil
				c.reloadSeed(ctx, loader, path)
			}
		}
	}()
	return nil
}

func (c *Catalog) reloadSeed(ctx context.Context, loader *SeedLoader, path string) {
	entries, invalid, err := loader.Load(path)
	if err != nil {
		c.logger.Warn("seed reload failed", "path", path, "error", err)
		return
	}
	added, skipped, err := c.Import(ctx, entries)
	if err != nil {
		c.logger.Error("seed import failed", "path", path, "error", err)
		return
	}
	c.logger.Info("seed reloaded", "path", path, "added", added, "skipped", skipped+invalid)
}
