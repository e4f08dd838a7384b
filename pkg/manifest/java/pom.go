// Package java reads test-scoped dependencies from Maven and Gradle build
// files. Both formats carry structure this tool must not disturb (plugins,
// profiles, build logic), so parsing is delimiter and line based and the
// files are never rewritten: Set and Remove report
// [manifest.ErrUnsupported].
package java

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
)

// POMEditor lists <dependency> blocks with <scope>test</scope> from pom.xml.
type POMEditor struct{}

func NewPOM() *POMEditor { return &POMEditor{} }

func (e *POMEditor) File(dir string) string { return filepath.Join(dir, "pom.xml") }

func (e *POMEditor) List(dir string) ([]manifest.Dependency, error) {
	path := e.File(dir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", manifest.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	deps := parsePOM(string(data))
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

func (e *POMEditor) Set(dir, name, version string) error {
	return fmt.Errorf("%w: pom.xml", manifest.ErrUnsupported)
}

func (e *POMEditor) Remove(dir, name string) error {
	return fmt.Errorf("%w: pom.xml", manifest.ErrUnsupported)
}

// parsePOM scans for <dependency> blocks and keeps those whose scope is
// test. groupId, artifactId and version are pulled out by delimiter search
// rather than a full XML parse so the surrounding document is irrelevant.
func parsePOM(data string) []manifest.Dependency {
	var deps []manifest.Dependency
	rest := data
	for {
		start := strings.Index(rest, "<dependency>")
		if start < 0 {
			break
		}
		rest = rest[start+len("<dependency>"):]
		end := strings.Index(rest, "</dependency>")
		if end < 0 {
			break
		}
		block := rest[:end]
		rest = rest[end+len("</dependency>"):]

		if !strings.Contains(block, "<scope>test</scope>") {
			continue
		}
		group := extractBetween(block, "<groupId>", "</groupId>")
		artifact := extractBetween(block, "<artifactId>", "</artifactId>")
		version := extractBetween(block, "<version>", "</version>")
		if version == "" {
			version = manifest.Wildcard
		}
		deps = append(deps, manifest.Dependency{
			Name:    group + ":" + artifact,
			Version: version,
		})
	}
	return deps
}

func extractBetween(hay, start, end string) string {
	s := strings.Index(hay, start)
	if s < 0 {
		return ""
	}
	hay = hay[s+len(start):]
	e := strings.Index(hay, end)
	if e < 0 {
		return ""
	}
	return strings.TrimSpace(hay[:e])
}
