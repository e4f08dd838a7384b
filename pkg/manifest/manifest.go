// Package manifest defines the common contract for reading and mutating
// the dev-dependency section of ecosystem manifest files.
//
// Each supported ecosystem implements [Editor] in its own subpackage
// (node, rust, python, golang, java, php, ruby). Structured formats
// (JSON, TOML, go.mod) are edited through a document model; plain-text
// formats (requirements files) are rewritten wholesale by design. Formats
// the tool never mutates (pom.xml, build.gradle, Gemfile) return
// [ErrUnsupported] from Set and Remove while still supporting List.
package manifest

import "errors"

// Wildcard is the placeholder written when a dependency is added without
// an explicit version.
const Wildcard = "*"

// ErrUnsupported is returned by Set and Remove for ecosystems whose
// manifests this tool only reads.
var ErrUnsupported = errors.New("manifest mutation not supported for this ecosystem")

// ErrNotFound is returned by List when the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")

// Dependency is one declared dev-dependency entry. Version is the declared
// constraint as written in the manifest, or [Wildcard] when unconstrained.
type Dependency struct {
	Name    string
	Version string
}

// Editor reads and mutates one ecosystem's manifest inside a project
// directory. Implementations locate their own manifest file and must keep
// every part of the file they do not intend to change intact on mutation.
type Editor interface {
	// File returns the manifest path the editor operates on within dir.
	File(dir string) string

	// List parses the manifest and returns its dev-dependency entries.
	// A missing manifest yields ErrNotFound; a malformed one yields a
	// parse error. Callers downgrade both to an empty listing.
	List(dir string) ([]Dependency, error)

	// Set inserts the named dependency or overwrites its version when the
	// name already exists. An empty version writes the ecosystem's
	// wildcard placeholder.
	Set(dir, name, version string) error

	// Remove deletes the named entry. Removing an absent name is a no-op,
	// not an error.
	Remove(dir, name string) error
}
