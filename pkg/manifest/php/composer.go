// Package php edits the require-dev section of composer.json files.
package php

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
)

const section = "require-dev"

// Editor implements [manifest.Editor] for composer.json. Mechanics mirror
// the Node editor: generic parse, mutate require-dev, re-serialize with
// sorted keys leaving every other field in place.
type Editor struct{}

func New() *Editor { return &Editor{} }

func (e *Editor) File(dir string) string { return filepath.Join(dir, "composer.json") }

func (e *Editor) List(dir string) ([]manifest.Dependency, error) {
	doc, err := load(e.File(dir))
	if err != nil {
		return nil, err
	}
	obj, _ := doc[section].(map[string]any)

	deps := make([]manifest.Dependency, 0, len(obj))
	for name, v := range obj {
		if ver, ok := v.(string); ok {
			deps = append(deps, manifest.Dependency{Name: name, Version: ver})
		}
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

func (e *Editor) Set(dir, name, version string) error {
	if version == "" {
		version = manifest.Wildcard
	}
	path := e.File(dir)
	doc, err := load(path)
	if err != nil {
		doc = map[string]any{}
	}

	obj, ok := doc[section].(map[string]any)
	if !ok {
		obj = map[string]any{}
		doc[section] = obj
	}
	obj[name] = version
	return save(path, doc)
}

func (e *Editor) Remove(dir, name string) error {
	path := e.File(dir)
	doc, err := load(path)
	if err != nil {
		return nil
	}
	obj, ok := doc[section].(map[string]any)
	if !ok {
		return nil
	}
	if _, ok := obj[name]; !ok {
		return nil
	}
	delete(obj, name)
	return save(path, doc)
}

func load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", manifest.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func save(path string, doc map[string]any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
