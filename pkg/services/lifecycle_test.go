package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, ".dx", "docker-compose.yml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("version: \"3.8\"\nservices: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestControl_MissingManifest(t *testing.T) {
	c := &Controller{Dir: t.TempDir()}
	err := c.Control(context.Background(), ActionUp)
	if !errors.Is(err, ErrNoManifest) {
		t.Errorf("err = %v, want ErrNoManifest", err)
	}
}

func TestControl_Actions(t *testing.T) {
	tests := []struct {
		action Action
		want   []string
	}{
		{ActionUp, []string{"up", "-d"}},
		{ActionStop, []string{"stop"}},
		{ActionRestart, []string{"restart"}},
		{ActionDown, []string{"down"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			dir := t.TempDir()
			path := writeManifest(t, dir)

			var gotName string
			var gotArgs []string
			c := &Controller{
				Dir: dir,
				RunCommand: func(_ context.Context, name string, args ...string) error {
					gotName = name
					gotArgs = args
					return nil
				},
			}
			if err := c.Control(context.Background(), tt.action); err != nil {
				t.Fatalf("Control: %v", err)
			}
			if gotName != "docker" {
				t.Errorf("command = %q, want docker", gotName)
			}
			want := append([]string{"compose", "-f", path}, tt.want...)
			if strings.Join(gotArgs, " ") != strings.Join(want, " ") {
				t.Errorf("args = %v, want %v", gotArgs, want)
			}
		})
	}
}

func TestControl_FallsBackToLegacyBinary(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir)

	var calls [][]string
	c := &Controller{
		Dir: dir,
		RunCommand: func(_ context.Context, name string, args ...string) error {
			calls = append(calls, append([]string{name}, args...))
			if name == "docker" {
				return errors.New("executable not found")
			}
			return nil
		},
	}
	if err := c.Control(context.Background(), ActionStop); err != nil {
		t.Fatalf("Control: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("calls = %v, want docker then docker-compose", calls)
	}
	want := []string{"docker-compose", "-f", path, "stop"}
	if strings.Join(calls[1], " ") != strings.Join(want, " ") {
		t.Errorf("fallback call = %v, want %v", calls[1], want)
	}
}

func TestControl_BothBinariesFail(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir)

	c := &Controller{
		Dir: dir,
		RunCommand: func(_ context.Context, _ string, _ ...string) error {
			return errors.New("executable not found")
		},
	}
	if err := c.Control(context.Background(), ActionUp); err == nil {
		t.Fatal("expected error when both binaries fail")
	}
}

func TestComposeArgs_UnknownAction(t *testing.T) {
	if _, err := composeArgs(Action("prune")); err == nil {
		t.Fatal("expected error for unknown action")
	}
}
