package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-typescaf/pkg/settings"
)

// RunFunc receives the outcome of every Watch run.
type RunFunc func(report *Report, err error)

var watchedExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".json": true, ".yaml": true, ".yml": true, ".tpl": true,
}

// Watch runs Generate once and then again after every debounced burst of
// changes to the source directories, the config directory or the template
// override directory. It returns when ctx ends. Files written by the
// previous run never trigger a new one. Watch needs the OS filesystem and
// fails when WithFS was given.
func (o *Orchestrator) Watch(ctx context.Context, req Request, onRun RunFunc) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if o.fsys != nil {
		return errors.New("orchestrator: watch requires the OS filesystem")
	}
	if onRun == nil {
		onRun = func(*Report, error) {}
	}
	root := req.Root
	if root == "" {
		root = "."
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	written := make(map[string]bool)
	run := func() {
		report, err := o.Generate(ctx, req)
		onRun(report, err)
		if report != nil {
			clear(written)
			for _, p := range report.Written {
				written[filepath.Clean(p)] = true
			}
		}
		for _, dir := range o.watchDirs(root, report) {
			if watched[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				o.logger.Debug("Skipping watch directory", "dir", dir, "error", err)
				continue
			}
			watched[dir] = true
		}
	}

	run()
	o.logger.Info("Watching for changes", "dirs", len(watched))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !o.relevant(event, written) {
				continue
			}
			o.logger.Debug("Change detected", "file", event.Name, "op", event.Op.String())
			fire = time.After(o.debounce)
		case <-fire:
			fire = nil
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("Watcher error", "error", err)
		}
	}
}

func (o *Orchestrator) relevant(event fsnotify.Event, written map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if written[filepath.Clean(event.Name)] {
		return false
	}
	return watchedExtensions[strings.ToLower(filepath.Ext(event.Name))]
}

// watchDirs lists the OS directories Watch subscribes to. A failed run
// still watches the config directories so fixing the settings recovers.
func (o *Orchestrator) watchDirs(root string, report *Report) []string {
	dirs := []string{
		filepath.Join(root, filepath.FromSlash(settings.ConfigDir)),
		filepath.Join(root, filepath.FromSlash(settings.UIDir)),
	}
	if report == nil {
		return dirs
	}
	if report.TemplateSet != "" {
		dirs = append(dirs, filepath.Join(root, filepath.FromSlash(settings.TemplatesDir), report.TemplateSet))
	}
	for _, dir := range sourceDirs(report.Sources) {
		dirs = append(dirs, filepath.Join(root, filepath.FromSlash(dir)))
	}
	return dirs
}
