package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

// testServer serves fixed bodies by path and 404s everything else.
func testServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNPM(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/jest/latest": `{"version": "29.7.0"}`,
	})
	r := &NPM{client: newClient(nil), baseURL: srv.URL}

	got, err := r.LatestVersion(context.Background(), "jest")
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if got != "29.7.0" {
		t.Errorf("version = %q, want 29.7.0", got)
	}

	if _, err := r.LatestVersion(context.Background(), "no-such-package"); !errors.Is(err, ErrNotFound) {
		t.Errorf("404 err = %v, want ErrNotFound", err)
	}
}

func TestCrates(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/crates/serde": `{"crate": {"max_stable_version": "1.0.200"}}`,
	})
	r := &Crates{client: newClient(nil), baseURL: srv.URL}

	got, err := r.LatestVersion(context.Background(), "serde")
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if got != "1.0.200" {
		t.Errorf("version = %q, want 1.0.200", got)
	}
}

func TestPyPI(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/pypi/pytest/json": `{"info": {"version": "8.2.0"}}`,
	})
	r := &PyPI{client: newClient(nil), baseURL: srv.URL}

	got, err := r.LatestVersion(context.Background(), "pytest")
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if got != "8.2.0" {
		t.Errorf("version = %q, want 8.2.0", got)
	}
}

func TestGoProxy_EscapesUppercase(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/github.com/!burnt!sushi/toml/@latest": `{"Version": "v1.5.0"}`,
	})
	r := &GoProxy{client: newClient(nil), baseURL: srv.URL}

	got, err := r.LatestVersion(context.Background(), "github.com/BurntSushi/toml")
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if got != "v1.5.0" {
		t.Errorf("version = %q, want v1.5.0", got)
	}
}

func TestMavenCentral(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "release preferred",
			body: `<metadata><versioning><latest>5.0-SNAPSHOT</latest><release>4.13.2</release></versioning></metadata>`,
			want: "4.13.2",
		},
		{
			name: "latest fallback",
			body: `<metadata><versioning><latest>4.13.2</latest></versioning></metadata>`,
			want: "4.13.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(t, map[string]string{
				"/junit/junit/maven-metadata.xml": tt.body,
			})
			r := &MavenCentral{client: newClient(nil), baseURL: srv.URL}

			got, err := r.LatestVersion(context.Background(), "junit:junit")
			if err != nil {
				t.Fatalf("LatestVersion: %v", err)
			}
			if got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMavenCentral_InvalidCoordinate(t *testing.T) {
	r := &MavenCentral{client: newClient(nil), baseURL: "http://unused"}
	if _, err := r.LatestVersion(context.Background(), "junit"); err == nil {
		t.Fatal("expected error for coordinate without groupId:artifactId")
	}
}

func TestPackagist_StripsVersionPrefix(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/p2/phpunit/phpunit.json": `{"packages": {"phpunit/phpunit": [{"version": "v10.5.0"}, {"version": "v10.4.0"}]}}`,
	})
	r := &Packagist{client: newClient(nil), baseURL: srv.URL}

	got, err := r.LatestVersion(context.Background(), "phpunit/phpunit")
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if got != "10.5.0" {
		t.Errorf("version = %q, want 10.5.0", got)
	}
}

func TestRubyGems(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/api/v1/gems/rspec.json": `{"version": "3.13.0"}`,
	})
	r := &RubyGems{client: newClient(nil), baseURL: srv.URL}

	got, err := r.LatestVersion(context.Background(), "rspec")
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if got != "3.13.0" {
		t.Errorf("version = %q, want 3.13.0", got)
	}
}

func TestCheckStatus(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusCreated, http.StatusNoContent} {
		if err := checkStatus(code); err != nil {
			t.Errorf("%d: %v", code, err)
		}
	}
	if err := checkStatus(http.StatusNotFound); !errors.Is(err, ErrNotFound) {
		t.Errorf("404 err = %v, want ErrNotFound", err)
	}

	err := checkStatus(http.StatusBadGateway)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("502 err = %v, want ErrNetwork", err)
	}
	if !errors.As(err, new(*retryableError)) {
		t.Errorf("502 should be retryable, got %T", err)
	}

	err = checkStatus(http.StatusForbidden)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("403 err = %v, want ErrNetwork", err)
	}
	if errors.As(err, new(*retryableError)) {
		t.Error("403 should not be retryable")
	}
}

func TestRetry(t *testing.T) {
	t.Run("retries transient failures", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return &retryableError{err: ErrNetwork}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("retry: %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("permanent failures return immediately", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return ErrNotFound
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return &retryableError{err: ErrNetwork}
		})
		if !errors.Is(err, ErrNetwork) {
			t.Fatalf("err = %v, want ErrNetwork", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})
}

func TestFor(t *testing.T) {
	kinds := []stack.Kind{
		stack.Node, stack.Rust, stack.Python, stack.Go,
		stack.Maven, stack.Gradle, stack.PHP, stack.Ruby,
	}
	for _, kind := range kinds {
		if _, ok := For(kind); !ok {
			t.Errorf("For(%s) has no resolver", kind)
		}
	}
	if _, ok := For(stack.Unknown); ok {
		t.Error("For(Unknown) should not return a resolver")
	}
}
