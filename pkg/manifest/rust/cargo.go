// Package rust edits the [dev-dependencies] table of Cargo.toml files.
//
// Cargo manifests are hand-edited, so mutations must not reformat the rest
// of the document. Listing goes through a full TOML parse; Set and Remove
// instead splice whole lines inside the [dev-dependencies] table and leave
// every other byte of the file untouched.
package rust

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
)

const tableHeader = "[dev-dependencies]"

// Editor implements [manifest.Editor] for Cargo.toml.
type Editor struct{}

func New() *Editor { return &Editor{} }

func (e *Editor) File(dir string) string { return filepath.Join(dir, "Cargo.toml") }

type cargoFile struct {
	DevDependencies map[string]any `toml:"dev-dependencies"`
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

	var cargo cargoFile
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	deps := make([]manifest.Dependency, 0, len(cargo.DevDependencies))
	for name, v := range cargo.DevDependencies {
		deps = append(deps, manifest.Dependency{Name: name, Version: versionOf(v)})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

// versionOf extracts the declared version from a dependency value, which
// is either a plain string or a table like { version = "1.0", ... }.
func versionOf(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val["version"].(string); ok {
			return s
		}
	}
	return manifest.Wildcard
}

func (e *Editor) Set(dir, name, version string) error {
	if version == "" {
		version = manifest.Wildcard
	}
	path := e.File(dir)
	lines, err := readLines(path)
	if os.IsNotExist(err) {
		lines = nil
	} else if err != nil {
		return err
	}

	entry := fmt.Sprintf("%s = %q", name, version)
	start, end := tableBounds(lines)
	if start < 0 {
		lines = appendTable(lines, entry)
		return writeLines(path, lines)
	}
	if i := entryIndex(lines, start, end, name); i >= 0 {
		lines[i] = entry
		return writeLines(path, lines)
	}

	// Insert after the last entry of the table, before any blank lines
	// separating it from the next table.
	at := start
	for i := start + 1; i < end; i++ {
		if strings.TrimSpace(lines[i]) != "" {
			at = i
		}
	}
	lines = append(lines[:at+1], append([]string{entry}, lines[at+1:]...)...)
	return writeLines(path, lines)
}

func (e *Editor) Remove(dir, name string) error {
	path := e.File(dir)
	lines, err := readLines(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	start, end := tableBounds(lines)
	if start < 0 {
		return nil
	}
	i := entryIndex(lines, start, end, name)
	if i < 0 {
		return nil
	}
	lines = append(lines[:i], lines[i+1:]...)
	return writeLines(path, lines)
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

func writeLines(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

// tableBounds returns the line index of the [dev-dependencies] header and
// the index one past the table body (the next table header or EOF).
// start is -1 when the table is absent.
func tableBounds(lines []string) (start, end int) {
	start = -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start < 0 {
			if trimmed == tableHeader {
				start = i
			}
			continue
		}
		if strings.HasPrefix(trimmed, "[") {
			return start, i
		}
	}
	if start < 0 {
		return -1, -1
	}
	return start, len(lines)
}

var keyRE = regexp.MustCompile(`^\s*(?:"([^"]+)"|([A-Za-z0-9_.-]+))\s*=`)

// entryIndex finds the table line declaring name, or -1.
func entryIndex(lines []string, start, end int, name string) int {
	for i := start + 1; i < end; i++ {
		m := keyRE.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		key := m[1]
		if key == "" {
			key = m[2]
		}
		if key == name {
			return i
		}
	}
	return -1
}

// appendTable adds a new [dev-dependencies] table with one entry at the
// end of the document, separated from existing content by a blank line.
func appendTable(lines []string, entry string) []string {
	// Drop trailing empty lines but remember the file's final newline.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	return append(lines, tableHeader, entry, "")
}
