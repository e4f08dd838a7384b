package registry

import (
	"context"
	"errors"
	"fmt"
)

// RubyGems resolves gem versions from rubygems.org.
type RubyGems struct {
	client  *client
	baseURL string
}

func NewRubyGems() *RubyGems {
	return &RubyGems{client: newClient(nil), baseURL: "https://rubygems.org"}
}

func (r *RubyGems) Name() string { return "rubygems" }

func (r *RubyGems) LatestVersion(ctx context.Context, name string) (string, error) {
	var data struct {
		Version string `json:"version"`
	}
	url := fmt.Sprintf("%s/api/v1/gems/%s.json", r.baseURL, name)
	if err := r.client.getJSON(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: gem %s", err, name)
		}
		return "", err
	}
	if data.Version == "" {
		return "", fmt.Errorf("rubygems: no version in response for %s", name)
	}
	return data.Version, nil
}
