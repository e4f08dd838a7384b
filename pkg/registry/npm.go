package registry

import (
	"context"
	"errors"
	"fmt"
)

// NPM resolves package versions from the npm registry.
type NPM struct {
	client  *client
	baseURL string
}

func NewNPM() *NPM {
	return &NPM{client: newClient(nil), baseURL: "https://registry.npmjs.org"}
}

func (r *NPM) Name() string { return "npm" }

func (r *NPM) LatestVersion(ctx context.Context, name string) (string, error) {
	var data struct {
		Version string `json:"version"`
	}
	url := fmt.Sprintf("%s/%s/latest", r.baseURL, name)
	if err := r.client.getJSON(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: npm package %s", err, name)
		}
		return "", err
	}
	if data.Version == "" {
		return "", fmt.Errorf("npm: no version in response for %s", name)
	}
	return data.Version, nil
}
