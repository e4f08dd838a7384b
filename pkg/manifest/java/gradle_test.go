package java

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dx-anywhere/dx-cli/pkg/manifest"
)

func writeGradle(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGradleList(t *testing.T) {
	dir := t.TempDir()
	writeGradle(t, dir, "build.gradle", `plugins {
    id 'java'
}

dependencies {
    implementation 'org.springframework:spring-core:6.1.0'
    testImplementation 'org.junit:junit:4.13'
    testRuntimeOnly "org.junit.platform:junit-platform-launcher"
}
`)

	deps, err := NewGradle().List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []manifest.Dependency{
		{Name: "org.junit.platform:junit-platform-launcher", Version: manifest.Wildcard},
		{Name: "org.junit:junit", Version: "4.13"},
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

func TestGradleFile_PrefersKotlinScript(t *testing.T) {
	dir := t.TempDir()
	writeGradle(t, dir, "build.gradle", "")
	writeGradle(t, dir, "build.gradle.kts", "")

	if got := NewGradle().File(dir); filepath.Base(got) != "build.gradle.kts" {
		t.Errorf("File = %s, want build.gradle.kts", got)
	}
}

func TestGradleMutationsUnsupported(t *testing.T) {
	dir := t.TempDir()
	e := NewGradle()
	if err := e.Set(dir, "org.junit:junit", "4.13"); !errors.Is(err, manifest.ErrUnsupported) {
		t.Errorf("Set err = %v, want ErrUnsupported", err)
	}
	if err := e.Remove(dir, "org.junit:junit"); !errors.Is(err, manifest.ErrUnsupported) {
		t.Errorf("Remove err = %v, want ErrUnsupported", err)
	}
}
