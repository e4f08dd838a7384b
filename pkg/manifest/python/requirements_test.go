package python

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
)

func writeRequirements(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFile_PrefersDevRequirements(t *testing.T) {
	dir := t.TempDir()
	writeRequirements(t, dir, "requirements.txt", "flask==1.0\n")
	writeRequirements(t, dir, "requirements-dev.txt", "pytest==8.0.0\n")

	if got := New().File(dir); filepath.Base(got) != "requirements-dev.txt" {
		t.Errorf("File = %s, want requirements-dev.txt", got)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeRequirements(t, dir, "requirements.txt", `# dev tools
pytest==8.0.0

black
ruff == 0.4.0
`)

	deps, err := New().List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []manifest.Dependency{
		{Name: "black", Version: manifest.Wildcard},
		{Name: "pytest", Version: "8.0.0"},
		{Name: "ruff", Version: "0.4.0"},
	}
	if len(deps) != len(want) {
		t.Fatalf("got %d deps, want %d: %+v", len(deps), len(want), deps)
	}
	for i, d := range deps {
		if d != want[i] {
			t.Errorf("deps[%d] = %+v, want %+v", i, d, want[i])
		}
	}
}

func TestSet_RewritesVersionWithoutDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeRequirements(t, dir, "requirements.txt", "flask==1.0\n")

	if err := New().Set(dir, "flask", "2.0"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, "flask==2.0") {
		t.Errorf("flask==2.0 missing:\n%s", got)
	}
	if strings.Count(got, "flask") != 1 {
		t.Errorf("duplicate flask lines:\n%s", got)
	}
}

func TestSet_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	e := New()
	if err := e.Set(dir, "pytest", ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	deps, err := e.List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 1 || deps[0].Name != "pytest" || deps[0].Version != manifest.Wildcard {
		t.Errorf("deps = %+v", deps)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	writeRequirements(t, dir, "requirements.txt", "pytest==8.0.0\nblack\n")

	e := New()
	if err := e.Remove(dir, "pytest"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	deps, err := e.List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 1 || deps[0].Name != "black" {
		t.Errorf("deps = %+v", deps)
	}
}

func TestRemove_AbsentNameIsNoop(t *testing.T) {
	dir := t.TempDir()
	content := "pytest==8.0.0\n"
	path := writeRequirements(t, dir, "requirements.txt", content)

	if err := New().Remove(dir, "nope"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("file rewritten on no-op remove")
	}
}
