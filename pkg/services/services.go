// Package services detects infrastructure dependencies (databases,
// caches, brokers) a project relies on and proposes a Docker Compose
// manifest providing them for local development.
//
// Detection is a keyword scan over manifest, configuration, and source
// files; it is the same marker-driven idea as stack detection, applied to
// service names instead of ecosystems.
package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// Service describes one compose service entry.
type Service struct {
	Image   string
	Command string
	Env     map[string]string
	Ports   []int
	Volumes []string
}

// Compose is the proposed docker-compose configuration.
type Compose struct {
	Version  string
	Services map[string]Service
}

// Names returns the service names in sorted order.
func (c *Compose) Names() []string {
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// YAML renders the configuration as Docker Compose YAML with services and
// keys in deterministic order. Named volumes referenced by services get a
// top-level volumes section.
func (c *Compose) YAML() ([]byte, error) {
	servicesNode := yaml.MapSlice{}
	volumeNames := map[string]bool{}

	for _, name := range c.Names() {
		svc := c.Services[name]
		node := yaml.MapSlice{{Key: "image", Value: svc.Image}}
		if svc.Command != "" {
			node = append(node, yaml.MapItem{Key: "command", Value: svc.Command})
		}
		if len(svc.Env) > 0 {
			env := yaml.MapSlice{}
			keys := make([]string, 0, len(svc.Env))
			for k := range svc.Env {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				env = append(env, yaml.MapItem{Key: k, Value: svc.Env[k]})
			}
			node = append(node, yaml.MapItem{Key: "environment", Value: env})
		}
		if len(svc.Ports) > 0 {
			ports := make([]string, len(svc.Ports))
			for i, p := range svc.Ports {
				ports[i] = fmt.Sprintf("%d:%d", p, p)
			}
			node = append(node, yaml.MapItem{Key: "ports", Value: ports})
		}
		if len(svc.Volumes) > 0 {
			node = append(node, yaml.MapItem{Key: "volumes", Value: svc.Volumes})
			for _, v := range svc.Volumes {
				volName, _, _ := strings.Cut(v, ":")
				if !strings.ContainsAny(volName, `/\`) {
					volumeNames[volName] = true
				}
			}
		}
		servicesNode = append(servicesNode, yaml.MapItem{Key: name, Value: node})
	}

	doc := yaml.MapSlice{
		{Key: "version", Value: c.Version},
		{Key: "services", Value: servicesNode},
	}
	if len(volumeNames) > 0 {
		vols := yaml.MapSlice{}
		names := make([]string, 0, len(volumeNames))
		for name := range volumeNames {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			vols = append(vols, yaml.MapItem{Key: name, Value: map[string]any{}})
		}
		doc = append(doc, yaml.MapItem{Key: "volumes", Value: vols})
	}
	return yaml.Marshal(doc)
}

// ManifestPath is where the proposed compose file is written, relative to
// the project root.
const ManifestPath = ".dx/docker-compose.yml"

// Write saves the rendered YAML under the project's .dx directory and
// returns the file path.
func Write(dir string, c *Compose) (string, error) {
	data, err := c.YAML()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.FromSlash(ManifestPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// probes map a service to the keywords whose presence in project files
// indicates the dependency.
var probes = []struct {
	service  string
	keywords []string
	build    func() Service
}{
	{
		service:  "postgres",
		keywords: []string{"postgres", "postgresql", "psycopg", "POSTGRES_URL", "DATABASE_URL"},
		build: func() Service {
			return Service{
				Image:   "postgres:16-alpine",
				Env:     map[string]string{"POSTGRES_PASSWORD": "example", "POSTGRES_DB": "app"},
				Ports:   []int{5432},
				Volumes: []string{"postgres-data:/var/lib/postgresql/data"},
			}
		},
	},
	{
		service:  "mysql",
		keywords: []string{"mysql", "mariadb", "innodb", "MYSQL_"},
		build: func() Service {
			// MariaDB: fully open source and lighter than MySQL for local dev.
			return Service{
				Image:   "mariadb:11",
				Env:     map[string]string{"MARIADB_ROOT_PASSWORD": "example", "MARIADB_DATABASE": "app"},
				Ports:   []int{3306},
				Volumes: []string{"mariadb-data:/var/lib/mysql"},
			}
		},
	},
	{
		service:  "redis",
		keywords: []string{"redis", "REDIS_URL", "REDIS_HOST", "predis"},
		build: func() Service {
			return Service{
				Image:   "redis:alpine",
				Ports:   []int{6379},
				Volumes: []string{"redis-data:/data"},
			}
		},
	},
	{
		service:  "mongodb",
		keywords: []string{"mongodb", "mongoose", "MONGO_URI", "mongo-driver"},
		build: func() Service {
			return Service{
				Image:   "mongo:7.0",
				Env:     map[string]string{"MONGO_INITDB_ROOT_USERNAME": "root", "MONGO_INITDB_ROOT_PASSWORD": "example"},
				Ports:   []int{27017},
				Volumes: []string{"mongodb-data:/data/db"},
			}
		},
	},
	{
		service:  "kafka",
		keywords: []string{"kafka", "KAFKA_BROKERS", "kafka-go", "spring-kafka"},
		build: func() Service {
			// Redpanda speaks the Kafka API and runs in one container.
			return Service{
				Image: "redpandadata/redpanda:latest",
				Command: "redpanda start --overprovisioned --smp 1 --memory 512M" +
					" --reserve-memory 0M --node-id 0 --check=false" +
					" --kafka-addr PLAINTEXT://0.0.0.0:9092,PLAINTEXT_HOST://0.0.0.0:29092" +
					" --advertise-kafka-addr PLAINTEXT://kafka:9092,PLAINTEXT_HOST://localhost:29092",
				Ports:   []int{9092, 29092},
				Volumes: []string{"redpanda-data:/var/lib/redpanda/data"},
			}
		},
	},
}

// Detect scans the project tree for service keywords and returns the
// proposed compose configuration. A project without matches yields an
// empty (but non-nil) configuration.
func Detect(dir string) *Compose {
	compose := &Compose{Version: "3.8", Services: map[string]Service{}}
	content := projectText(dir)

	for _, p := range probes {
		for _, kw := range p.keywords {
			if strings.Contains(content, strings.ToLower(kw)) {
				compose.Services[p.service] = p.build()
				break
			}
		}
	}

	if _, ok := compose.Services["kafka"]; ok {
		// A console makes the broker inspectable during development.
		compose.Services["kafka-ui"] = Service{
			Image: "provectuslabs/kafka-ui:latest",
			Env: map[string]string{
				"KAFKA_CLUSTERS_0_NAME":             "local",
				"KAFKA_CLUSTERS_0_BOOTSTRAPSERVERS": "kafka:9092",
				"SERVER_PORT":                       "9093",
			},
			Ports: []int{9093},
		}
	}
	return compose
}

// scanExtensions limits the keyword scan to manifest, config, and source
// files.
var scanExtensions = map[string]bool{
	".env": true, ".go": true, ".gradle": true, ".java": true, ".js": true,
	".json": true, ".kts": true, ".php": true, ".properties": true,
	".py": true, ".rb": true, ".rs": true, ".toml": true, ".ts": true,
	".txt": true, ".xml": true, ".yaml": true, ".yml": true,
}

var skipDirs = map[string]bool{
	".git": true, ".dx": true, "node_modules": true, "target": true,
	"vendor": true, "__pycache__": true, "dist": true,
}

const maxScanFileSize = 512 << 10

// projectText concatenates the lowercase content of every scannable file
// in the tree. Oversized and binary-ish files are skipped.
func projectText(dir string) string {
	var b strings.Builder
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(d.Name())
		if !scanExtensions[ext] && d.Name() != "Gemfile" && d.Name() != ".env" {
			return nil
		}
		if info, err := d.Info(); err != nil || info.Size() > maxScanFileSize {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		b.WriteString(strings.ToLower(string(data)))
		b.WriteByte('\n')
		return nil
	})
	return b.String()
}
