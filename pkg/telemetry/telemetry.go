// Package telemetry provisions a local observability stack for a
// project: Grafana, Prometheus, Loki, Tempo, and an OpenTelemetry
// collector wired together. Configuration files go under .dx/telemetry
// and the services are merged into the project's proposed compose
// manifest, so one "docker compose up" brings up both the detected
// infrastructure and the telemetry backends.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dx-anywhere/dx-cli/pkg/services"
	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

// ConfigDir is where provisioning files are written, relative to the
// project root.
const ConfigDir = ".dx/telemetry"

// Result reports what Apply produced.
type Result struct {
	ComposePath string
	Compose     *services.Compose
	ConfigPaths []string
}

// Apply writes the telemetry configuration files, merges the telemetry
// services into the compose configuration detected for the project, and
// writes the combined manifest.
func Apply(dir string) (*Result, error) {
	paths, err := WriteConfigs(dir)
	if err != nil {
		return nil, err
	}

	compose := services.Detect(dir)
	for name, svc := range Services() {
		compose.Services[name] = svc
	}

	composePath, err := services.Write(dir, compose)
	if err != nil {
		return nil, err
	}
	return &Result{ComposePath: composePath, Compose: compose, ConfigPaths: paths}, nil
}

// Services returns the compose service entries for the telemetry stack.
// Bind mounts are relative to the compose file's directory (.dx), so
// they point into ./telemetry.
func Services() map[string]services.Service {
	return map[string]services.Service{
		"loki": {
			Image:   "grafana/loki:2.9.6",
			Ports:   []int{3100},
			Volumes: []string{"loki-data:/loki"},
		},
		"tempo": {
			Image:   "grafana/tempo:2.5.0",
			Command: "-config.file=/etc/tempo.yaml",
			Ports:   []int{3200},
			Volumes: []string{
				"./telemetry/tempo/tempo.yaml:/etc/tempo.yaml",
				"tempo-data:/var/tempo",
			},
		},
		"prometheus": {
			Image: "prom/prometheus:latest",
			Ports: []int{9090},
			Volumes: []string{
				"./telemetry/prometheus/prometheus.yml:/etc/prometheus/prometheus.yml",
				"prom-data:/prometheus",
			},
		},
		"grafana": {
			Image: "grafana/grafana:latest",
			Env: map[string]string{
				"GF_AUTH_ANONYMOUS_ENABLED":  "true",
				"GF_AUTH_ANONYMOUS_ORG_ROLE": "Admin",
			},
			Ports: []int{3000},
			Volumes: []string{
				"./telemetry/grafana/provisioning/datasources:/etc/grafana/provisioning/datasources",
				"./telemetry/grafana/provisioning/dashboards:/etc/grafana/provisioning/dashboards",
				"./telemetry/grafana/dashboards:/var/lib/grafana/dashboards",
				"grafana-storage:/var/lib/grafana",
			},
		},
		"otel-collector": {
			Image:   "otel/opentelemetry-collector-contrib:latest",
			Command: "--config=/etc/otel-collector-config.yaml",
			Ports:   []int{4317, 4318, 8889},
			Volumes: []string{
				"./telemetry/otel-collector-config.yaml:/etc/otel-collector-config.yaml",
			},
		},
	}
}

// WriteConfigs writes the provisioning files for Grafana, Prometheus,
// Tempo, and the collector, plus a starter dashboard named after the
// detected ecosystem. It returns the written paths.
func WriteConfigs(dir string) ([]string, error) {
	base := filepath.Join(dir, filepath.FromSlash(ConfigDir))

	lang := dashboardLanguage(stack.Detect(dir))
	files := map[string]string{
		"grafana/provisioning/datasources/datasources.yaml": datasourcesYAML,
		"grafana/provisioning/dashboards/dashboards.yaml":   dashboardProviderYAML,
		"prometheus/prometheus.yml":                         prometheusYAML,
		"tempo/tempo.yaml":                                  tempoYAML,
		"otel-collector-config.yaml":                        otelCollectorYAML,
		"grafana/dashboards/" + strings.ToLower(lang) + "-overview.json": dashboardJSON(lang),
	}

	paths := make([]string, 0, len(files))
	for rel, content := range files {
		path := filepath.Join(base, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// dashboardLanguage maps the detected ecosystem to the language label
// used in the starter dashboard. Unknown projects get a general one.
func dashboardLanguage(kind stack.Kind) string {
	switch kind {
	case stack.Node:
		return "JavaScript"
	case stack.Rust:
		return "Rust"
	case stack.Python:
		return "Python"
	case stack.Go:
		return "Go"
	case stack.Maven, stack.Gradle:
		return "Java"
	case stack.PHP:
		return "PHP"
	case stack.Ruby:
		return "Ruby"
	default:
		return "General"
	}
}

const datasourcesYAML = `apiVersion: 1
datasources:
  - name: Prometheus
    type: prometheus
    access: proxy
    url: http://prometheus:9090
    isDefault: true
  - name: Loki
    type: loki
    access: proxy
    url: http://loki:3100
  - name: Tempo
    type: tempo
    access: proxy
    url: http://tempo:3200
`

const dashboardProviderYAML = `apiVersion: 1
providers:
  - name: 'Default'
    orgId: 1
    folder: ''
    type: file
    disableDeletion: false
    editable: true
    updateIntervalSeconds: 30
    options:
      path: /var/lib/grafana/dashboards
`

const prometheusYAML = `global:
  scrape_interval: 30s
scrape_configs:
  - job_name: 'otel-collector'
    static_configs:
      - targets: ['otel-collector:8889']
`

// Single-binary Tempo with local storage and explicit OTLP endpoints.
const tempoYAML = `server:
  http_listen_port: 3200
compactor:
  compaction:
    block_retention: 24h
distributor:
  receivers:
    otlp:
      protocols:
        http:
          endpoint: 0.0.0.0:4318
        grpc:
          endpoint: 0.0.0.0:4317
ingester:
  lifecycler:
    address: 127.0.0.1
    ring:
      kvstore:
        store: inmemory
      replication_factor: 1
  trace_idle_period: 10s
  max_block_bytes: 1048576
  max_block_duration: 10m
storage:
  trace:
    backend: local
    local:
      path: /var/tempo/traces
    wal:
      path: /var/tempo/wal
`

// OTLP in on 4317/4318; metrics out via the Prometheus exporter on
// 8889, logs to Loki over OTLP HTTP, traces to Tempo over OTLP gRPC.
const otelCollectorYAML = `receivers:
  otlp:
    protocols:
      grpc:
        endpoint: 0.0.0.0:4317
      http:
        endpoint: 0.0.0.0:4318
exporters:
  prometheus:
    endpoint: 0.0.0.0:8889
  otlphttp/loki:
    endpoint: http://loki:3100/otlp
  otlp/tempo:
    endpoint: tempo:4317
    tls:
      insecure: true
processors:
  batch: {}
  memory_limiter:
    check_interval: 1s
    limit_mib: 200
    spike_limit_mib: 100
service:
  pipelines:
    metrics:
      receivers: [otlp]
      processors: [memory_limiter, batch]
      exporters: [prometheus]
    logs:
      receivers: [otlp]
      processors: [memory_limiter, batch]
      exporters: [otlphttp/loki]
    traces:
      receivers: [otlp]
      processors: [memory_limiter, batch]
      exporters: [otlp/tempo]
`

// dashboardJSON builds a minimal starter dashboard with one Prometheus
// panel and one Loki panel.
func dashboardJSON(language string) string {
	const template = `{
  "annotations": {
    "list": [{
      "builtIn": 1,
      "datasource": "-- Grafana --",
      "type": "dashboard"
    }]
  },
  "editable": true,
  "fiscalYearStartMonth": 0,
  "graphTooltip": 0,
  "panels": [
    {
      "type": "timeseries",
      "title": "CPU (sample)",
      "datasource": "Prometheus",
      "targets": [{"expr": "process_cpu_seconds_total"}],
      "gridPos": {"h": 8, "w": 12, "x": 0, "y": 0}
    },
    {
      "type": "logs",
      "title": "Recent Logs",
      "datasource": "Loki",
      "targets": [{"expr": "{job=~\".*\"}"}],
      "gridPos": {"h": 8, "w": 24, "x": 0, "y": 8}
    }
  ],
  "schemaVersion": 39,
  "title": "__TITLE__",
  "version": 1
}`
	return strings.ReplaceAll(template, "__TITLE__", language+" Overview")
}
