package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

// stubResolver resolves from a fixed map and fails for unknown names.
type stubResolver struct {
	versions map[string]string
}

func (s *stubResolver) Name() string { return "stub" }

func (s *stubResolver) LatestVersion(_ context.Context, name string) (string, error) {
	v, ok := s.versions[name]
	if !ok {
		return "", fmt.Errorf("stub: unknown package %s", name)
	}
	return v, nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"devDependencies": {"jest": "^29.0.0"}}`)

	kind, entries := List(dir, Options{})
	if kind != stack.Node {
		t.Fatalf("kind = %s, want node", kind)
	}
	if len(entries) != 1 || entries[0].Name != "jest" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestList_UnknownStack(t *testing.T) {
	kind, entries := List(t.TempDir(), Options{})
	if kind != stack.Unknown {
		t.Errorf("kind = %s, want unknown", kind)
	}
	if entries != nil {
		t.Errorf("entries = %+v, want nil", entries)
	}
}

func TestList_UnparseableManifestIsBestEffort(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{not json`)

	var logged []string
	_, entries := List(dir, Options{Logger: func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}})
	if entries != nil {
		t.Errorf("entries = %+v, want nil", entries)
	}
	if len(logged) == 0 {
		t.Error("expected a diagnostic for the parse failure")
	}
}

func TestGather(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"devDependencies": {
		"eslint": "8.50.0",
		"jest": "^29.0.0",
		"mystery": "1.0.0"
	}}`)

	res := &stubResolver{versions: map[string]string{
		"eslint": "9.0.0",
		"jest":   "29.7.0",
	}}
	infos := Gather(context.Background(), dir, Options{Resolver: res, Workers: 2})
	if len(infos) != 3 {
		t.Fatalf("got %d infos, want 3: %+v", len(infos), infos)
	}

	// Listing order (sorted by the adapter) must be preserved.
	wantNames := []string{"eslint", "jest", "mystery"}
	for i, info := range infos {
		if info.Name != wantNames[i] {
			t.Errorf("infos[%d].Name = %s, want %s", i, info.Name, wantNames[i])
		}
	}
	if infos[0].LatestVersion != "9.0.0" {
		t.Errorf("eslint latest = %q", infos[0].LatestVersion)
	}
	// Failed resolution degrades to an empty latest version.
	if infos[2].LatestVersion != "" {
		t.Errorf("mystery latest = %q, want empty", infos[2].LatestVersion)
	}
	if !strings.Contains(infos[1].UpdateCommand, "npm install jest@latest") {
		t.Errorf("UpdateCommand = %q", infos[1].UpdateCommand)
	}
	if infos[1].URL != "https://www.npmjs.com/package/jest" {
		t.Errorf("URL = %q", infos[1].URL)
	}
}

func TestAddThenDelete(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"devDependencies": {"jest": "^29.0.0"}}`)

	if err := Add(dir, "eslint", "8.50.0"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, entries := List(dir, Options{})
	if len(entries) != 2 {
		t.Fatalf("after add: %+v", entries)
	}

	if err := Delete(dir, "eslint"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, entries = List(dir, Options{})
	if len(entries) != 1 || entries[0].Name != "jest" {
		t.Errorf("after delete: %+v", entries)
	}

	// Deleting an absent name is idempotent.
	if err := Delete(dir, "eslint"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestAdd_UnknownStack(t *testing.T) {
	err := Add(t.TempDir(), "jest", "")
	if !errors.Is(err, manifest.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestUpdate_SingleName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "flask==1.0\npytest==7.0.0\n")

	res := &stubResolver{versions: map[string]string{"flask": "2.0"}}
	result, err := Update(context.Background(), dir, "flask", Options{Resolver: res})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(result.Updated) != 1 || result.Updated[0] != "flask" {
		t.Errorf("result = %+v", result)
	}

	data, err := os.ReadFile(filepath.Join(dir, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, "flask==2.0") || strings.Count(got, "flask") != 1 {
		t.Errorf("requirements.txt:\n%s", got)
	}
	if !strings.Contains(got, "pytest==7.0.0") {
		t.Errorf("pytest entry changed:\n%s", got)
	}
}

func TestUpdate_AllWithPartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "flask==1.0\nmystery==0.1\n")

	res := &stubResolver{versions: map[string]string{"flask": "2.0"}}
	result, err := Update(context.Background(), dir, "", Options{Resolver: res})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(result.Updated) != 1 || result.Updated[0] != "flask" {
		t.Errorf("Updated = %v", result.Updated)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "mystery" {
		t.Errorf("Skipped = %v", result.Skipped)
	}
}

func TestUpdate_UnknownStack(t *testing.T) {
	_, err := Update(context.Background(), t.TempDir(), "", Options{Resolver: &stubResolver{}})
	if !errors.Is(err, manifest.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestInfoLink(t *testing.T) {
	info := Info{Name: "jest", URL: "https://www.npmjs.com/package/jest"}
	if got := info.Link(); got != "[jest](https://www.npmjs.com/package/jest)" {
		t.Errorf("Link = %q", got)
	}
}
