// Package watch runs the detected stack's test command whenever project
// files change.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

// DefaultDebounce coalesces filesystem event bursts (editor save storms,
// branch switches) into a single test run.
const DefaultDebounce = 500 * time.Millisecond

// Runner watches a project tree and reruns its test command on change.
type Runner struct {
	Dir      string
	Debounce time.Duration
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   func(string, ...any)

	// RunCommand overrides test execution; used by tests.
	RunCommand func(ctx context.Context, name string, args ...string) error
}

var skipDirs = map[string]bool{
	".git": true, ".dx": true, "node_modules": true, "target": true,
	"vendor": true, "__pycache__": true, "dist": true,
}

// Run executes the test command once, then blocks watching for changes
// until ctx is canceled. Each burst of change events triggers one rerun.
func (r *Runner) Run(ctx context.Context) error {
	if r.Debounce <= 0 {
		r.Debounce = DefaultDebounce
	}
	if r.Logger == nil {
		r.Logger = func(string, ...any) {}
	}

	kind := stack.Detect(r.Dir)
	name, args, ok := kind.TestCommand(r.Dir)
	if !ok {
		return fmt.Errorf("no test command known for %s", r.Dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := r.addTree(watcher, r.Dir); err != nil {
		return err
	}

	r.runTests(ctx, name, args)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if skipDirs[filepath.Base(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Create) {
				// New directories must be watched too.
				_ = r.addTree(watcher, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(r.Debounce)
			} else {
				timer.Reset(r.Debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Logger("watch: %v", err)
		case <-fire:
			fire = nil
			r.runTests(ctx, name, args)
		}
	}
}

// addTree registers path and every directory below it, honoring skipDirs.
// Non-directory paths are ignored.
func (r *Runner) addTree(watcher *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			r.Logger("watch %s: %v", p, err)
		}
		return nil
	})
}

func (r *Runner) runTests(ctx context.Context, name string, args []string) {
	r.Logger("running %s", strings.Join(append([]string{name}, args...), " "))

	run := r.RunCommand
	if run == nil {
		run = func(ctx context.Context, name string, args ...string) error {
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Dir = r.Dir
			cmd.Stdout = r.Stdout
			cmd.Stderr = r.Stderr
			return cmd.Run()
		}
	}
	if err := run(ctx, name, args...); err != nil {
		r.Logger("tests failed: %v", err)
	}
}
