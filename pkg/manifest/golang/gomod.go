// Package golang edits the require declarations of go.mod files using
// golang.org/x/mod/modfile, which understands both single-line requires
// and parenthesized require blocks and keeps comments and layout intact
// when rewriting.
package golang

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/mod/modfile"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
)

// Editor implements [manifest.Editor] for go.mod. Listing covers direct
// requires only; entries marked "// indirect" are omitted.
type Editor struct{}

func New() *Editor { return &Editor{} }

func (e *Editor) File(dir string) string { return filepath.Join(dir, "go.mod") }

func (e *Editor) List(dir string) ([]manifest.Dependency, error) {
	mod, err := e.load(dir)
	if err != nil {
		return nil, err
	}

	var deps []manifest.Dependency
	for _, req := range mod.Require {
		if req.Indirect {
			continue
		}
		deps = append(deps, manifest.Dependency{Name: req.Mod.Path, Version: req.Mod.Version})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

func (e *Editor) Set(dir, name, version string) error {
	if version == "" {
		return fmt.Errorf("go.mod requires an explicit version for %s", name)
	}
	mod, err := e.load(dir)
	if err != nil {
		return err
	}
	if err := mod.AddRequire(name, version); err != nil {
		return err
	}
	return e.save(dir, mod)
}

func (e *Editor) Remove(dir, name string) error {
	mod, err := e.load(dir)
	if errors.Is(err, manifest.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := mod.DropRequire(name); err != nil {
		return err
	}
	mod.Cleanup()
	return e.save(dir, mod)
}

func (e *Editor) load(dir string) (*modfile.File, error) {
	path := e.File(dir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", manifest.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	mod, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return mod, nil
}

func (e *Editor) save(dir string, mod *modfile.File) error {
	data, err := mod.Format()
	if err != nil {
		return err
	}
	return os.WriteFile(e.File(dir), data, 0o644)
}
