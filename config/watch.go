package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kastheco/hisect/log"
)

// watchDebounce collapses the burst of events editors emit for one save.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the configuration from configDir whenever config.json or
// config.toml is written, and hands the result to onChange. It blocks until ctx
// is done. onChange runs on the watcher goroutine.
func Watch(ctx context.Context, configDir string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(configDir); err != nil {
		return fmt.Errorf("watch %s: %w", configDir, err)
	}

	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			switch filepath.Base(event.Name) {
			case ConfigFileName, TOMLConfigFileName:
			default:
				continue
			}
			pending = true
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			onChange(LoadConfigFrom(configDir))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WarningLog.Printf("config watcher: %v", err)
		}
	}
}
