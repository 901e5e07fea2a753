package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce groups the events of an editor save into one rebuild.
const debounce = 100 * time.Millisecond

func (a *App) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	dirs, err := watchDirs(a.config.Models)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	a.logger.Info("watching model files", "dirs", len(dirs))

	var (
		timer   *time.Timer
		rebuild <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						a.logger.Warn("watch directory", "dir", ev.Name, "error", err)
					}
					continue
				}
			}
			if !relevant(ev) {
				continue
			}
			a.logger.Debug("model file changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			rebuild = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)
		case <-rebuild:
			rebuild = nil
			if _, err := a.Build(ctx); err != nil {
				a.logger.Error("build failed", "error", err)
			}
		}
	}
}

// relevant reports whether ev changes a model file.
func relevant(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) != ".hcl" {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// watchDirs returns the directories holding the model paths: the parent of
// each file, and every directory below each directory.
func watchDirs(paths []string) ([]string, error) {
	var dirs []string
	add := func(dir string) {
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("watch: %w", err)
		}
		if !info.IsDir() {
			add(filepath.Dir(path))
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("watch: walk %s: %w", path, err)
		}
	}
	return dirs, nil
}
