// Package stack detects which language ecosystem a project directory
// belongs to by probing for canonical marker files.
package stack

import (
	"os"
	"path/filepath"
)

// Kind identifies a supported language ecosystem.
type Kind int

const (
	Unknown Kind = iota
	Node
	Rust
	Python
	Go
	Maven
	Gradle
	PHP
	Ruby
)

// String returns the human-readable ecosystem name.
func (k Kind) String() string {
	switch k {
	case Node:
		return "Node.js"
	case Rust:
		return "Rust"
	case Python:
		return "Python"
	case Go:
		return "Go"
	case Maven:
		return "Java (Maven)"
	case Gradle:
		return "Java (Gradle)"
	case PHP:
		return "PHP"
	case Ruby:
		return "Ruby"
	default:
		return "Unknown"
	}
}

// markers lists the detection probes in priority order. The first kind
// whose marker file exists wins, so a repo containing both package.json
// and Gemfile is always reported as Node.
var markers = []struct {
	kind  Kind
	files []string
}{
	{Node, []string{"package.json"}},
	{Rust, []string{"Cargo.toml"}},
	{Python, []string{"requirements-dev.txt", "requirements.txt", "pyproject.toml"}},
	{Go, []string{"go.mod"}},
	{Maven, []string{"pom.xml"}},
	{Gradle, []string{"build.gradle", "build.gradle.kts"}},
	{PHP, []string{"composer.json"}},
	{Ruby, []string{"Gemfile"}},
}

// Detect inspects dir for ecosystem marker files and returns the matching
// Kind. A directory without any marker yields Unknown; that is a normal
// outcome, not an error.
func Detect(dir string) Kind {
	for _, m := range markers {
		for _, f := range m.files {
			if fileExists(filepath.Join(dir, f)) {
				return m.kind
			}
		}
	}
	return Unknown
}

// TestCommand returns the conventional test invocation for the ecosystem,
// used by the continuous test runner. ok is false for Unknown.
func (k Kind) TestCommand(dir string) (name string, args []string, ok bool) {
	switch k {
	case Rust:
		return "cargo", []string{"test"}, true
	case Node:
		return "npm", []string{"test"}, true
	case Python:
		return "python", []string{"-m", "pytest"}, true
	case Go:
		return "go", []string{"test", "./..."}, true
	case Maven:
		return "mvn", []string{"test"}, true
	case Gradle:
		if fileExists(filepath.Join(dir, "gradlew")) {
			return "./gradlew", []string{"test"}, true
		}
		return "gradle", []string{"test"}, true
	case PHP:
		return "composer", []string{"test"}, true
	case Ruby:
		return "bundle", []string{"exec", "rake"}, true
	default:
		return "", nil, false
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
