package registry

import (
	"context"
	"errors"
	"fmt"
)

// Crates resolves crate versions from crates.io.
type Crates struct {
	client  *client
	baseURL string
}

func NewCrates() *Crates {
	// crates.io requires a User-Agent identifying the caller.
	headers := map[string]string{
		"User-Agent": "dx-cli/1.0 (https://github.com/dx-anywhere/dx-cli)",
	}
	return &Crates{client: newClient(headers), baseURL: "https://crates.io/api/v1"}
}

func (r *Crates) Name() string { return "crates.io" }

func (r *Crates) LatestVersion(ctx context.Context, name string) (string, error) {
	var data struct {
		Crate struct {
			MaxStableVersion string `json:"max_stable_version"`
		} `json:"crate"`
	}
	url := fmt.Sprintf("%s/crates/%s", r.baseURL, name)
	if err := r.client.getJSON(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: crate %s", err, name)
		}
		return "", err
	}
	if data.Crate.MaxStableVersion == "" {
		return "", fmt.Errorf("crates.io: no stable version for %s", name)
	}
	return data.Crate.MaxStableVersion, nil
}
