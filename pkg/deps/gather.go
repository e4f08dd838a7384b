package deps

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
	"github.com/dx-anywhere/dx-cli/pkg/registry"
	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

// DefaultWorkers bounds the concurrent registry calls issued by Gather.
const DefaultWorkers = 8

// Options configures resolution behavior.
type Options struct {
	Workers  int                  // concurrent resolver calls (default: 8)
	Resolver registry.Resolver    // resolver override (default: per-ecosystem)
	Logger   func(string, ...any) // diagnostic callback (optional)
}

func (o Options) withDefaults() Options {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// List detects the project's stack and returns its dev-dependency entries.
// Unsupported stacks and missing or unparseable manifests yield an empty
// listing with a diagnostic through opts.Logger, never an error: listing
// is always best effort.
func List(dir string, opts Options) (stack.Kind, []manifest.Dependency) {
	opts = opts.withDefaults()
	kind := stack.Detect(dir)
	eco, ok := ecosystems[kind]
	if !ok {
		return kind, nil
	}
	entries, err := eco.editor.List(dir)
	if err != nil {
		opts.Logger("list %s: %v", kind, err)
		return kind, nil
	}
	return kind, entries
}

// Gather returns one Info per dependency, enriched with the latest known
// registry version. Resolver calls fan out across a bounded worker pool;
// results keep the adapter's listing order. A failed resolution leaves
// LatestVersion empty and is reported through opts.Logger.
func Gather(ctx context.Context, dir string, opts Options) []Info {
	opts = opts.withDefaults()
	kind, entries := List(dir, opts)
	if len(entries) == 0 {
		return nil
	}
	eco := ecosystems[kind]

	res := opts.Resolver
	if res == nil {
		res, _ = registry.For(kind)
	}

	infos := make([]Info, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			latest, err := res.LatestVersion(gctx, entry.Name)
			if err != nil {
				opts.Logger("resolve %s: %v", entry.Name, err)
			}
			infos[i] = Info{
				Name:           entry.Name,
				CurrentVersion: entry.Version,
				LatestVersion:  latest,
				UpdateCommand:  eco.updateCommand(entry.Name, latest),
				URL:            eco.packageURL(entry.Name),
			}
			return nil
		})
	}
	_ = g.Wait()
	return infos
}

// Add inserts name into the detected manifest's dev-dependency section.
// An empty version writes the ecosystem's wildcard placeholder. Existing
// entries are overwritten.
func Add(dir, name, version string) error {
	kind := stack.Detect(dir)
	eco, ok := ecosystems[kind]
	if !ok {
		return fmt.Errorf("%w: no supported stack in %s", manifest.ErrUnsupported, dir)
	}
	return eco.editor.Set(dir, name, version)
}

// Delete removes name from the detected manifest. Deleting an absent name
// is a no-op.
func Delete(dir, name string) error {
	kind := stack.Detect(dir)
	eco, ok := ecosystems[kind]
	if !ok {
		return fmt.Errorf("%w: no supported stack in %s", manifest.ErrUnsupported, dir)
	}
	return eco.editor.Remove(dir, name)
}

// UpdateResult reports the outcome of an Update run.
type UpdateResult struct {
	Updated []string // entries rewritten to their latest version
	Skipped []string // entries whose resolution failed
}

// Update re-resolves dependencies and rewrites their declared versions.
// With a name, only that entry is touched; otherwise every entry in the
// section is updated. Resolution failures skip the entry and are recorded
// in the result; only manifest write failures abort.
func Update(ctx context.Context, dir, name string, opts Options) (UpdateResult, error) {
	opts = opts.withDefaults()
	var result UpdateResult

	kind := stack.Detect(dir)
	eco, ok := ecosystems[kind]
	if !ok {
		return result, fmt.Errorf("%w: no supported stack in %s", manifest.ErrUnsupported, dir)
	}

	res := opts.Resolver
	if res == nil {
		res, _ = registry.For(kind)
	}

	targets := []manifest.Dependency{{Name: name}}
	if name == "" {
		entries, err := eco.editor.List(dir)
		if err != nil {
			if errors.Is(err, manifest.ErrNotFound) {
				return result, nil
			}
			return result, err
		}
		targets = entries
	}

	for _, entry := range targets {
		latest, err := res.LatestVersion(ctx, entry.Name)
		if err != nil {
			opts.Logger("resolve %s: %v", entry.Name, err)
			result.Skipped = append(result.Skipped, entry.Name)
			continue
		}
		if err := eco.editor.Set(dir, entry.Name, latest); err != nil {
			return result, err
		}
		result.Updated = append(result.Updated, entry.Name)
	}
	return result, nil
}
