// Package ruby reads dev/test dependencies from Gemfiles. Gemfiles are
// Ruby programs, so the tool only lists gem calls inside development and
// test groups and never rewrites the file: Set and Remove report
// [manifest.ErrUnsupported].
package ruby

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
)

// Editor implements [manifest.Editor] for Gemfile (list-only).
type Editor struct{}

func New() *Editor { return &Editor{} }

func (e *Editor) File(dir string) string { return filepath.Join(dir, "Gemfile") }

func (e *Editor) List(dir string) ([]manifest.Dependency, error) {
	path := e.File(dir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", manifest.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	deps := parseGemfile(string(data))
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

func (e *Editor) Set(dir, name, version string) error {
	return fmt.Errorf("%w: Gemfile", manifest.ErrUnsupported)
}

func (e *Editor) Remove(dir, name string) error {
	return fmt.Errorf("%w: Gemfile", manifest.ErrUnsupported)
}

var gemRE = regexp.MustCompile(`^gem\s+['"]([^'"]+)['"](?:\s*,\s*['"]([^'"]+)['"])?`)

// parseGemfile collects gem declarations inside group :development or
// group :test blocks. Versionless gems map to the wildcard.
func parseGemfile(data string) []manifest.Dependency {
	seen := make(map[string]bool)
	var deps []manifest.Dependency
	inGroup := false

	for _, line := range strings.Split(data, "\n") {
		l := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(l, "#"):
			continue
		case strings.HasPrefix(l, "group"):
			inGroup = strings.Contains(l, ":development") || strings.Contains(l, ":test")
			continue
		case l == "end":
			inGroup = false
			continue
		}
		if !inGroup {
			continue
		}
		m := gemRE.FindStringSubmatch(l)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		version := m[2]
		if version == "" {
			version = manifest.Wildcard
		}
		deps = append(deps, manifest.Dependency{Name: m[1], Version: version})
	}
	return deps
}
