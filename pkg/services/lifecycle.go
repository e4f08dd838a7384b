package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Action is a docker compose lifecycle operation on the generated
// manifest.
type Action string

const (
	ActionUp      Action = "up"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
	ActionDown    Action = "down"
)

// ErrNoManifest is returned when the generated compose file does not
// exist yet.
var ErrNoManifest = errors.New("compose manifest not found")

// composeArgs maps each action to its docker compose arguments.
func composeArgs(action Action) ([]string, error) {
	switch action {
	case ActionUp:
		// Detached so the CLI returns once containers are started.
		return []string{"up", "-d"}, nil
	case ActionStop, ActionRestart, ActionDown:
		return []string{string(action)}, nil
	default:
		return nil, fmt.Errorf("unknown compose action %q", action)
	}
}

// Controller drives docker compose against the project's generated
// manifest at .dx/docker-compose.yml.
type Controller struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	Logger func(string, ...any)

	// RunCommand overrides command execution; used by tests.
	RunCommand func(ctx context.Context, name string, args ...string) error
}

// Control runs the given lifecycle action. The Compose V2 plugin
// ("docker compose") is tried first; when it cannot be executed the
// legacy docker-compose binary is used as a fallback.
func (c *Controller) Control(ctx context.Context, action Action) error {
	if c.Logger == nil {
		c.Logger = func(string, ...any) {}
	}

	path := filepath.Join(c.Dir, filepath.FromSlash(ManifestPath))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNoManifest, path)
		}
		return err
	}

	args, err := composeArgs(action)
	if err != nil {
		return err
	}

	run := c.RunCommand
	if run == nil {
		run = func(ctx context.Context, name string, args ...string) error {
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Dir = c.Dir
			cmd.Stdout = c.Stdout
			cmd.Stderr = c.Stderr
			return cmd.Run()
		}
	}

	v2 := append([]string{"compose", "-f", path}, args...)
	if err := run(ctx, "docker", v2...); err == nil {
		return nil
	} else {
		c.Logger("docker compose failed (%v), trying legacy docker-compose", err)
	}

	v1 := append([]string{"-f", path}, args...)
	if err := run(ctx, "docker-compose", v1...); err != nil {
		return fmt.Errorf("docker compose %s: %w", action, err)
	}
	return nil
}
