// Package report assembles the full project analysis into a single
// Markdown document: badges, detected stack, proposed services, and the
// resolved dev-dependency table.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dx-anywhere/dx-cli/pkg/badges"
	"github.com/dx-anywhere/dx-cli/pkg/deps"
	"github.com/dx-anywhere/dx-cli/pkg/services"
	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

// DefaultPath is where Write saves the report, relative to the project
// root.
const DefaultPath = ".dx/report.md"

// Report holds everything the Markdown rendering needs.
type Report struct {
	Dir     string
	Stack   stack.Kind
	Compose *services.Compose
	Deps    []deps.Info
}

// Analyze runs stack detection, service detection, and dependency
// resolution for dir. Resolution failures degrade to empty latest-version
// cells; Analyze itself never fails on network trouble.
func Analyze(ctx context.Context, dir string, opts deps.Options) *Report {
	kind := stack.Detect(dir)
	return &Report{
		Dir:     dir,
		Stack:   kind,
		Compose: services.Detect(dir),
		Deps:    deps.Gather(ctx, dir, opts),
	}
}

// Markdown renders the report document.
func (r *Report) Markdown() string {
	var b strings.Builder

	name := filepath.Base(r.Dir)
	if abs, err := filepath.Abs(r.Dir); err == nil {
		name = filepath.Base(abs)
	}

	fmt.Fprintf(&b, "# Project analysis: %s\n\n", name)
	b.WriteString(badges.Line(r.Compose.Names()))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "**Detected stack:** %s\n\n", r.Stack)

	b.WriteString("## Services\n\n")
	if len(r.Compose.Services) == 0 {
		b.WriteString("No infrastructure services detected.\n\n")
	} else {
		b.WriteString("| Service | Image |\n|---|---|\n")
		for _, svcName := range r.Compose.Names() {
			svc := r.Compose.Services[svcName]
			fmt.Fprintf(&b, "| %s | %s |\n", svcName, linkifyImage(svc.Image))
		}
		b.WriteString("\n")
		if yamlBytes, err := r.Compose.YAML(); err == nil {
			b.WriteString("<details>\n<summary>Proposed docker-compose.yml</summary>\n\n")
			b.WriteString("```yaml\n")
			b.Write(yamlBytes)
			b.WriteString("```\n\n</details>\n\n")
		}
	}

	b.WriteString("## Dev dependencies\n\n")
	if len(r.Deps) == 0 {
		b.WriteString("No dev dependencies found.\n")
	} else {
		b.WriteString("| Package | Current | Latest | Update |\n|---|---|---|---|\n")
		for _, d := range r.Deps {
			latest := d.LatestVersion
			if latest == "" {
				latest = "?"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | `%s` |\n",
				d.Link(), d.CurrentVersion, latest, d.UpdateCommand)
		}
	}
	return b.String()
}

// Write saves the rendered report under dir and returns the file path.
func (r *Report) Write(dir, relPath string) (string, error) {
	if relPath == "" {
		relPath = DefaultPath
	}
	path := filepath.Join(dir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(r.Markdown()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// linkifyImage turns a container image reference into a Markdown link to
// its registry page. Unqualified images link to Docker Hub.
func linkifyImage(image string) string {
	ref, _, _ := strings.Cut(image, ":")
	var url string
	switch {
	case strings.HasPrefix(ref, "ghcr.io/"),
		strings.HasPrefix(ref, "quay.io/"),
		strings.HasPrefix(ref, "gcr.io/"):
		url = "https://" + ref
	case strings.Contains(ref, "/"):
		url = "https://hub.docker.com/r/" + ref
	default:
		url = "https://hub.docker.com/_/" + ref
	}
	return fmt.Sprintf("[%s](%s)", image, url)
}
