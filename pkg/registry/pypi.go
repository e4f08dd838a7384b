package registry

import (
	"context"
	"errors"
	"fmt"
)

// PyPI resolves package versions from the Python Package Index.
type PyPI struct {
	client  *client
	baseURL string
}

func NewPyPI() *PyPI {
	return &PyPI{client: newClient(nil), baseURL: "https://pypi.org"}
}

func (r *PyPI) Name() string { return "pypi" }

func (r *PyPI) LatestVersion(ctx context.Context, name string) (string, error) {
	var data struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
	}
	url := fmt.Sprintf("%s/pypi/%s/json", r.baseURL, name)
	if err := r.client.getJSON(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: pypi package %s", err, name)
		}
		return "", err
	}
	if data.Info.Version == "" {
		return "", fmt.Errorf("pypi: no version in response for %s", name)
	}
	return data.Info.Version, nil
}
