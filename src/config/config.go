// Package config loads declarative server definitions shared by the
// transport builders. A config file maps server names to either a stdio
// command or an HTTP endpoint, in JSON or YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcpbridge/go-mcpbridge/src/json"
)

// Transport values recognized in a server definition.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportSSE   = "sse"
)

// Server declares how to reach one tool server. Transport selects the union
// arm: "stdio" uses Command plus the environment fields, "http" and "sse"
// use URL and Headers.
type Server struct {
	Transport      string            `json:"transport" yaml:"transport"`
	Command        string            `json:"command,omitempty" yaml:"command,omitempty"`
	Args           []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env            map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	EnvFile        string            `json:"envFile,omitempty" yaml:"envFile,omitempty"`
	EnvClear       bool              `json:"envClear,omitempty" yaml:"envClear,omitempty"`
	EnvRemove      []string          `json:"envRemove,omitempty" yaml:"envRemove,omitempty"`
	WorkingDir     string            `json:"workingDir,omitempty" yaml:"workingDir,omitempty"`
	URL            string            `json:"url,omitempty" yaml:"url,omitempty"`
	Headers        map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	TimeoutSeconds int               `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	ClientName     string            `json:"clientName,omitempty" yaml:"clientName,omitempty"`
}

// Config is a named collection of server definitions.
type Config struct {
	Servers map[string]Server `json:"mcpServers" yaml:"mcpServers"`
}

// Load reads a config file, parsing YAML for .yaml/.yml extensions and JSON
// otherwise, and validates every server definition.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	for name, s := range cfg.Servers {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("server %q: %w", name, err)
		}
	}
	return &cfg, nil
}

// Validate checks that the definition names a usable transport arm.
func (s Server) Validate() error {
	switch s.Transport {
	case TransportStdio:
		if strings.TrimSpace(s.Command) == "" {
			return fmt.Errorf("stdio server requires a command")
		}
	case TransportHTTP, TransportSSE:
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("%s server requires a url", s.Transport)
		}
	default:
		return fmt.Errorf("unknown transport %q", s.Transport)
	}
	return nil
}

// Timeout converts the configured seconds into a duration; zero means the
// builder default applies.
func (s Server) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}
