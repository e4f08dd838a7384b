package java

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
)

// testConfigurations are the Gradle configuration keywords that declare
// test-time dependencies.
var testConfigurations = []string{
	"testImplementation",
	"testCompile",
	"testRuntimeOnly",
	"testCompileOnly",
}

// GradleEditor lists test-configuration dependencies from build.gradle or
// build.gradle.kts by scanning the dependencies { ... } block for quoted
// group:artifact:version coordinates.
type GradleEditor struct{}

func NewGradle() *GradleEditor { return &GradleEditor{} }

func (e *GradleEditor) File(dir string) string {
	kts := filepath.Join(dir, "build.gradle.kts")
	if _, err := os.Stat(kts); err == nil {
		return kts
	}
	return filepath.Join(dir, "build.gradle")
}

func (e *GradleEditor) List(dir string) ([]manifest.Dependency, error) {
	path := e.File(dir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", manifest.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	deps := parseGradle(string(data))
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

func (e *GradleEditor) Set(dir, name, version string) error {
	return fmt.Errorf("%w: gradle build scripts", manifest.ErrUnsupported)
}

func (e *GradleEditor) Remove(dir, name string) error {
	return fmt.Errorf("%w: gradle build scripts", manifest.ErrUnsupported)
}

func parseGradle(data string) []manifest.Dependency {
	var deps []manifest.Dependency
	inBlock := false

	for _, line := range strings.Split(data, "\n") {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "dependencies") {
			inBlock = true
			continue
		}
		if inBlock && strings.HasPrefix(l, "}") {
			inBlock = false
			continue
		}
		if !inBlock {
			continue
		}
		for _, cfg := range testConfigurations {
			if !strings.HasPrefix(l, cfg) {
				continue
			}
			coord, ok := quoted(l)
			if !ok {
				continue
			}
			parts := strings.SplitN(coord, ":", 3)
			if len(parts) < 2 {
				continue
			}
			version := manifest.Wildcard
			if len(parts) == 3 && parts[2] != "" {
				version = parts[2]
			}
			deps = append(deps, manifest.Dependency{
				Name:    parts[0] + ":" + parts[1],
				Version: version,
			})
			break
		}
	}
	return deps
}

// quoted returns the first single- or double-quoted string in the line.
func quoted(line string) (string, bool) {
	start := strings.IndexAny(line, `'"`)
	if start < 0 {
		return "", false
	}
	q := line[start]
	rest := line[start+1:]
	end := strings.IndexByte(rest, q)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
