package script

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
)

// settle lets an editor finish writing before the script is re-read
const settle = 100 * time.Millisecond

// Watch runs the script at path, then runs it again each time the file is
// saved, until ctx is done. done, if set, receives every run's result.
func Watch(ctx context.Context, path string, r Runner, done func(error)) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(path)); err != nil {
		return err
	}

	run := time.After(time.Millisecond)
	for {
		select {
		case <-run:
			log.Printf("script: run %s", filepath.Base(path))
			err := RunFile(ctx, path, r)
			if err != nil {
				log.Printf("script: %v", err)
			}
			if done != nil {
				done(err)
			}
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == path && !ev.IsAttrib() && !ev.IsDelete() {
				run = time.After(settle)
			}
		case err := <-watcher.Error:
			log.Printf("script: watcher: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
