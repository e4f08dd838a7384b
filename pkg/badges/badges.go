// Package badges maintains a managed block of shields.io badges in the
// project README, one badge per detected infrastructure service.
package badges

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Markers delimit the managed block. Everything between them is owned by
// dx and rewritten on each run; content outside is never touched.
const (
	startMarker = "<!-- dx-cli:badges:start -->"
	endMarker   = "<!-- dx-cli:badges:end -->"
)

// badgeColors gives each known service a stable shields.io color.
var badgeColors = map[string]string{
	"postgres": "4169E1",
	"mysql":    "4479A1",
	"redis":    "DC382D",
	"mongodb":  "47A248",
	"kafka":    "231F20",
	"kafka-ui": "231F20",
}

// Line renders the badge Markdown for the given service names, sorted,
// with the dx badge appended. An empty service list still yields the dx
// badge.
func Line(services []string) string {
	names := append([]string(nil), services...)
	sort.Strings(names)

	var badges []string
	for _, name := range names {
		color := badgeColors[name]
		if color == "" {
			color = "5B5B5B"
		}
		badges = append(badges, fmt.Sprintf(
			"![%s](https://img.shields.io/badge/%s-%s?logo=%s&logoColor=white)",
			name, urlEscape(name), color, urlEscape(name)))
	}
	badges = append(badges,
		"![dx](https://img.shields.io/badge/dx-anywhere-blue)")
	return strings.Join(badges, " ")
}

// urlEscape encodes the characters shields.io treats specially in badge
// path segments.
func urlEscape(s string) string {
	s = strings.ReplaceAll(s, "-", "--")
	s = strings.ReplaceAll(s, "_", "__")
	return strings.ReplaceAll(s, " ", "_")
}

// Upsert writes the managed badge block into the README under dir,
// creating the file when absent. An existing block is replaced in place;
// otherwise the block is inserted after the first top-level heading, or
// prepended when there is none. Returns the README path.
func Upsert(dir string, services []string) (string, error) {
	path := readmePath(dir)
	block := startMarker + "\n" + Line(services) + "\n" + endMarker

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		name := filepath.Base(dir)
		if abs, err := filepath.Abs(dir); err == nil {
			name = filepath.Base(abs)
		}
		content := fmt.Sprintf("# %s\n\n%s\n", name, block)
		return path, os.WriteFile(path, []byte(content), 0o644)
	}
	if err != nil {
		return "", err
	}

	content := string(data)
	if start := strings.Index(content, startMarker); start >= 0 {
		end := strings.Index(content, endMarker)
		if end < start {
			return "", fmt.Errorf("%s: badge end marker missing or misplaced", filepath.Base(path))
		}
		content = content[:start] + block + content[end+len(endMarker):]
		return path, os.WriteFile(path, []byte(content), 0o644)
	}

	lines := strings.Split(content, "\n")
	inserted := false
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			rest := append([]string{block, ""}, lines[i+1:]...)
			lines = append(lines[:i+1], append([]string{""}, rest...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		lines = append([]string{block, ""}, lines...)
	}
	return path, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

// Clean removes the managed block from the README. It reports whether a
// block was actually removed; a README without the block, or no README at
// all, is a no-op.
func Clean(dir string) (bool, error) {
	path := readmePath(dir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	content := string(data)
	start := strings.Index(content, startMarker)
	if start < 0 {
		return false, nil
	}
	end := strings.Index(content, endMarker)
	if end < start {
		return false, fmt.Errorf("%s: badge end marker missing or misplaced", filepath.Base(path))
	}
	tail := content[end+len(endMarker):]
	tail = strings.TrimPrefix(tail, "\n")
	head := content[:start]
	head = strings.TrimSuffix(head, "\n")
	if head != "" && tail != "" {
		head += "\n"
	}
	if err := os.WriteFile(path, []byte(head+tail), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func readmePath(dir string) string {
	return filepath.Join(dir, "README.md")
}
