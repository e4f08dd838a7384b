package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// GoProxy resolves module versions from the Go module proxy.
type GoProxy struct {
	client  *client
	baseURL string
}

func NewGoProxy() *GoProxy {
	return &GoProxy{client: newClient(nil), baseURL: "https://proxy.golang.org"}
}

func (r *GoProxy) Name() string { return "goproxy" }

func (r *GoProxy) LatestVersion(ctx context.Context, name string) (string, error) {
	var data struct {
		Version string `json:"Version"`
	}
	url := fmt.Sprintf("%s/%s/@latest", r.baseURL, escapeModulePath(name))
	if err := r.client.getJSON(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: go module %s", err, name)
		}
		return "", err
	}
	if data.Version == "" {
		return "", fmt.Errorf("goproxy: no version in response for %s", name)
	}
	return data.Version, nil
}

// escapeModulePath applies the module proxy's case encoding: uppercase
// letters become '!' followed by the lowercase letter.
func escapeModulePath(path string) string {
	var b strings.Builder
	for _, r := range path {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('!')
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
