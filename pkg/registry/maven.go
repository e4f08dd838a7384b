package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MavenCentral resolves artifact versions from repo1.maven.org metadata.
// Package names are "groupId:artifactId" coordinates; Gradle projects use
// the same resolver.
type MavenCentral struct {
	client  *client
	baseURL string
}

func NewMavenCentral() *MavenCentral {
	return &MavenCentral{client: newClient(nil), baseURL: "https://repo1.maven.org/maven2"}
}

func (r *MavenCentral) Name() string { return "maven-central" }

func (r *MavenCentral) LatestVersion(ctx context.Context, name string) (string, error) {
	group, artifact, ok := strings.Cut(name, ":")
	if !ok || group == "" || artifact == "" {
		return "", fmt.Errorf("maven: invalid coordinate %q (want groupId:artifactId)", name)
	}

	var meta struct {
		Versioning struct {
			Release string `xml:"release"`
			Latest  string `xml:"latest"`
		} `xml:"versioning"`
	}
	url := fmt.Sprintf("%s/%s/%s/maven-metadata.xml",
		r.baseURL, strings.ReplaceAll(group, ".", "/"), artifact)
	if err := r.client.getXML(ctx, url, &meta); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: maven artifact %s", err, name)
		}
		return "", err
	}

	// <release> is the newest non-snapshot version; fall back to <latest>.
	if meta.Versioning.Release != "" {
		return meta.Versioning.Release, nil
	}
	if meta.Versioning.Latest != "" {
		return meta.Versioning.Latest, nil
	}
	return "", fmt.Errorf("maven: no release version in metadata for %s", name)
}
