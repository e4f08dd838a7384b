// Package registry queries public package registries for the newest
// published version of a named package.
//
// One [Resolver] exists per ecosystem, each a single HTTP endpoint with a
// shared client providing request timeouts and retry with backoff. Every
// failure mode (network error, non-2xx status, missing response field)
// surfaces as an error value; callers downgrade resolution failures to an
// "unknown latest version" placeholder instead of aborting.
package registry

import (
	"context"
	"errors"

	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

var (
	// ErrNotFound is returned when the registry has no package by that name.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for HTTP failures: timeouts, connection
	// errors, and unexpected status codes.
	ErrNetwork = errors.New("network error")
)

// Resolver looks up the latest published version of a package in one
// ecosystem's registry. Implementations are stateless and safe for
// concurrent use.
type Resolver interface {
	// Name returns the registry identifier (e.g. "npm", "crates.io").
	Name() string
	// LatestVersion returns the newest published version of the named
	// package, or an error when the lookup fails for any reason.
	LatestVersion(ctx context.Context, name string) (string, error)
}

// For returns the resolver for the given ecosystem. Maven and Gradle
// share Maven Central. ok is false for Unknown.
func For(kind stack.Kind) (Resolver, bool) {
	switch kind {
	case stack.Node:
		return NewNPM(), true
	case stack.Rust:
		return NewCrates(), true
	case stack.Python:
		return NewPyPI(), true
	case stack.Go:
		return NewGoProxy(), true
	case stack.Maven, stack.Gradle:
		return NewMavenCentral(), true
	case stack.PHP:
		return NewPackagist(), true
	case stack.Ruby:
		return NewRubyGems(), true
	default:
		return nil, false
	}
}
