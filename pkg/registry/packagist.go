package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Packagist resolves package versions from the Composer p2 metadata API.
type Packagist struct {
	client  *client
	baseURL string
}

func NewPackagist() *Packagist {
	return &Packagist{client: newClient(nil), baseURL: "https://repo.packagist.org"}
}

func (r *Packagist) Name() string { return "packagist" }

func (r *Packagist) LatestVersion(ctx context.Context, name string) (string, error) {
	var data struct {
		Packages map[string][]struct {
			Version string `json:"version"`
		} `json:"packages"`
	}
	url := fmt.Sprintf("%s/p2/%s.json", r.baseURL, name)
	if err := r.client.getJSON(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: packagist package %s", err, name)
		}
		return "", err
	}

	// The p2 endpoint lists versions newest first.
	versions := data.Packages[name]
	if len(versions) == 0 || versions[0].Version == "" {
		return "", fmt.Errorf("packagist: no versions in response for %s", name)
	}
	return strings.TrimPrefix(versions[0].Version, "v"), nil
}
