// Package python edits pip requirements files.
//
// The manifest is requirements-dev.txt when present, requirements.txt
// otherwise. Requirements files are plain text, so mutations rewrite the
// whole file from a sorted name/version map; comments and blank lines are
// intentionally not preserved.
package python

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
)

// Editor implements [manifest.Editor] for requirements files.
type Editor struct{}

func New() *Editor { return &Editor{} }

func (e *Editor) File(dir string) string {
	dev := filepath.Join(dir, "requirements-dev.txt")
	if _, err := os.Stat(dev); err == nil {
		return dev
	}
	return filepath.Join(dir, "requirements.txt")
}

func (e *Editor) List(dir string) ([]manifest.Dependency, error) {
	path := e.File(dir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", manifest.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	reqs := parse(string(data))
	deps := make([]manifest.Dependency, 0, len(reqs))
	for name, version := range reqs {
		deps = append(deps, manifest.Dependency{Name: name, Version: version})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

func (e *Editor) Set(dir, name, version string) error {
	if version == "" {
		version = manifest.Wildcard
	}
	path := e.File(dir)
	reqs := loadOrEmpty(path)
	reqs[name] = version
	return write(path, reqs)
}

func (e *Editor) Remove(dir, name string) error {
	path := e.File(dir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	reqs := parse(string(data))
	if _, ok := reqs[name]; !ok {
		return nil
	}
	delete(reqs, name)
	return write(path, reqs)
}

// parse reads requirement lines into a name -> version map. A line is
// either "name==version" or a bare name, which maps to the wildcard.
// Comments and blank lines are skipped.
func parse(content string) map[string]string {
	reqs := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, version, ok := strings.Cut(line, "=="); ok {
			reqs[strings.TrimSpace(name)] = strings.TrimSpace(version)
		} else {
			reqs[line] = manifest.Wildcard
		}
	}
	return reqs
}

func loadOrEmpty(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		return make(map[string]string)
	}
	return parse(string(data))
}

func write(path string, reqs map[string]string) error {
	names := make([]string, 0, len(reqs))
	for name := range reqs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		if reqs[name] == manifest.Wildcard {
			fmt.Fprintf(&b, "%s\n", name)
		} else {
			fmt.Fprintf(&b, "%s==%s\n", name, reqs[name])
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
