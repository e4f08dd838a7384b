package golang

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleGoMod = `module example.com/demo

go 1.22

require github.com/gin-gonic/gin v1.9.0

require (
	github.com/bytedance/sonic v1.9.1 // indirect
	golang.org/x/net v0.10.0 // indirect
)
`

func writeGoMod(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "go.mod")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestList_DirectRequiresOnly(t *testing.T) {
	dir := t.TempDir()
	writeGoMod(t, dir, sampleGoMod)

	deps, err := New().List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("got %d deps, want 1: %+v", len(deps), deps)
	}
	if deps[0].Name != "github.com/gin-gonic/gin" || deps[0].Version != "v1.9.0" {
		t.Errorf("deps[0] = %+v", deps[0])
	}
}

func TestSet(t *testing.T) {
	dir := t.TempDir()
	writeGoMod(t, dir, sampleGoMod)

	e := New()
	if err := e.Set(dir, "github.com/stretchr/testify", "v1.9.0"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	deps, err := e.List(dir)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range deps {
		if d.Name == "github.com/stretchr/testify" && d.Version == "v1.9.0" {
			found = true
		}
	}
	if !found {
		t.Errorf("testify not added: %+v", deps)
	}
}

func TestSet_RequiresExplicitVersion(t *testing.T) {
	dir := t.TempDir()
	writeGoMod(t, dir, sampleGoMod)

	if err := New().Set(dir, "github.com/stretchr/testify", ""); err == nil {
		t.Fatal("expected error for empty version")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	path := writeGoMod(t, dir, sampleGoMod)

	e := New()
	if err := e.Remove(dir, "github.com/gin-gonic/gin"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if strings.Contains(got, "gin-gonic") {
		t.Errorf("gin still present:\n%s", got)
	}
	if !strings.Contains(got, "module example.com/demo") {
		t.Errorf("module directive lost:\n%s", got)
	}
}

func TestRemove_MissingFileIsNoop(t *testing.T) {
	if err := New().Remove(t.TempDir(), "github.com/gin-gonic/gin"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}
