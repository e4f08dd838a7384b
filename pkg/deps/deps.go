// Package deps joins manifest adapters with registry resolvers into
// complete dependency records and exposes the list/add/update/delete
// operations of the dx CLI.
//
// The package owns the per-ecosystem dispatch table: each supported
// [stack.Kind] maps to exactly one [manifest.Editor], one
// [registry.Resolver], and the display templates (update command, package
// homepage) for that ecosystem. Callers select the ecosystem once via
// stack detection; no operation inspects the stack again mid-flight.
package deps

import (
	"fmt"
	"strings"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
	"github.com/dx-anywhere/dx-cli/pkg/manifest/golang"
	"github.com/dx-anywhere/dx-cli/pkg/manifest/java"
	"github.com/dx-anywhere/dx-cli/pkg/manifest/node"
	"github.com/dx-anywhere/dx-cli/pkg/manifest/php"
	"github.com/dx-anywhere/dx-cli/pkg/manifest/python"
	"github.com/dx-anywhere/dx-cli/pkg/manifest/ruby"
	"github.com/dx-anywhere/dx-cli/pkg/manifest/rust"
	"github.com/dx-anywhere/dx-cli/pkg/registry"
	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

// Info is one fully resolved dependency record: the manifest entry plus
// the latest known registry version and display metadata.
type Info struct {
	Name           string
	CurrentVersion string
	LatestVersion  string // empty when resolution failed
	UpdateCommand  string
	URL            string
}

// Link returns the dependency name as a Markdown link to its registry page.
func (i Info) Link() string {
	return fmt.Sprintf("[%s](%s)", i.Name, i.URL)
}

// ecosystem binds everything the CLI needs for one stack kind.
type ecosystem struct {
	editor        manifest.Editor
	updateCommand func(name, latest string) string
	packageURL    func(name string) string
}

var ecosystems = map[stack.Kind]ecosystem{
	stack.Node: {
		editor: node.New(),
		updateCommand: func(name, _ string) string {
			return fmt.Sprintf("npm install %s@latest -D", name)
		},
		packageURL: func(name string) string {
			return "https://www.npmjs.com/package/" + name
		},
	},
	stack.Rust: {
		editor: rust.New(),
		updateCommand: func(name, latest string) string {
			return fmt.Sprintf("cargo update -p %s --precise %s", name, latest)
		},
		packageURL: func(name string) string {
			return "https://crates.io/crates/" + name
		},
	},
	stack.Python: {
		editor: python.New(),
		updateCommand: func(name, _ string) string {
			return "pip install -U " + name
		},
		packageURL: func(name string) string {
			return "https://pypi.org/project/" + name + "/"
		},
	},
	stack.Go: {
		editor: golang.New(),
		updateCommand: func(name, _ string) string {
			return fmt.Sprintf("go get %s@latest", name)
		},
		packageURL: func(name string) string {
			return "https://pkg.go.dev/" + name
		},
	},
	stack.Maven: {
		editor: java.NewPOM(),
		updateCommand: func(name, _ string) string {
			return fmt.Sprintf("mvn dependency:get -Dartifact=%s:LATEST", name)
		},
		packageURL: mavenURL,
	},
	stack.Gradle: {
		editor: java.NewGradle(),
		updateCommand: func(_, _ string) string {
			return "./gradlew --refresh-dependencies"
		},
		packageURL: mavenURL,
	},
	stack.PHP: {
		editor: php.New(),
		updateCommand: func(name, _ string) string {
			return "composer update " + name
		},
		packageURL: func(name string) string {
			return "https://packagist.org/packages/" + name
		},
	},
	stack.Ruby: {
		editor: ruby.New(),
		updateCommand: func(name, _ string) string {
			return "bundle update " + name
		},
		packageURL: func(name string) string {
			return "https://rubygems.org/gems/" + name
		},
	},
}

// mavenURL turns a "group:artifact" coordinate into its Maven Central
// search page.
func mavenURL(name string) string {
	return "https://search.maven.org/artifact/" + strings.ReplaceAll(name, ":", "/")
}

// EditorFor returns the manifest editor for kind. ok is false for Unknown.
func EditorFor(kind stack.Kind) (manifest.Editor, bool) {
	eco, ok := ecosystems[kind]
	if !ok {
		return nil, false
	}
	return eco.editor, true
}

// ResolverFor returns the registry resolver for kind.
func ResolverFor(kind stack.Kind) (registry.Resolver, bool) {
	return registry.For(kind)
}
