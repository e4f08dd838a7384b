package stack

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		markers []string
		want    Kind
	}{
		{"node", []string{"package.json"}, Node},
		{"rust", []string{"Cargo.toml"}, Rust},
		{"python requirements", []string{"requirements.txt"}, Python},
		{"python dev requirements", []string{"requirements-dev.txt"}, Python},
		{"python pyproject", []string{"pyproject.toml"}, Python},
		{"go", []string{"go.mod"}, Go},
		{"maven", []string{"pom.xml"}, Maven},
		{"gradle groovy", []string{"build.gradle"}, Gradle},
		{"gradle kotlin", []string{"build.gradle.kts"}, Gradle},
		{"php", []string{"composer.json"}, PHP},
		{"ruby", []string{"Gemfile"}, Ruby},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, m := range tt.markers {
				writeFile(t, dir, m)
			}
			if got := Detect(dir); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_PriorityOrder(t *testing.T) {
	// With multiple markers present the fixed priority order decides.
	dir := t.TempDir()
	writeFile(t, dir, "Gemfile")
	writeFile(t, dir, "go.mod")
	writeFile(t, dir, "package.json")

	if got := Detect(dir); got != Node {
		t.Errorf("Detect() = %v, want Node", got)
	}
}

func TestDetect_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "package.json"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := Detect(dir); got != Unknown {
		t.Errorf("Detect() = %v, want Unknown", got)
	}
}

func TestTestCommand(t *testing.T) {
	dir := t.TempDir()

	name, args, ok := Go.TestCommand(dir)
	if !ok || name != "go" || len(args) != 2 {
		t.Errorf("Go.TestCommand() = %q %v %v", name, args, ok)
	}

	if _, _, ok := Unknown.TestCommand(dir); ok {
		t.Error("Unknown.TestCommand() ok = true, want false")
	}
}

func TestTestCommand_GradleWrapper(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gradlew")

	name, _, ok := Gradle.TestCommand(dir)
	if !ok || name != "./gradlew" {
		t.Errorf("Gradle.TestCommand() = %q, want ./gradlew", name)
	}
}

func TestKindString(t *testing.T) {
	if Unknown.String() != "Unknown" {
		t.Errorf("Unknown.String() = %q", Unknown.String())
	}
	if Maven.String() != "Java (Maven)" {
		t.Errorf("Maven.String() = %q", Maven.String())
	}
}
