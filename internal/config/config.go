package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/AntoineGS/dynform/internal/form"
	"gopkg.in/yaml.v3"
)

// Defaults applied to missing keys.
const (
	DefaultIDPolicy    = "monotonic"
	DefaultWebAddr     = ":8080"
	DefaultHistoryKeep = 100
)

// Config is the dynform app configuration.
type Config struct {
	Form         FormConfig         `yaml:"form"`
	Notification NotificationConfig `yaml:"notification"`
	History      HistoryConfig      `yaml:"history"`
	Web          WebConfig          `yaml:"web"`
}

// FormConfig controls the form session.
type FormConfig struct {
	// IDPolicy is "monotonic" (ids never reused) or "max" (max live id + 1).
	IDPolicy string `yaml:"id_policy"`
}

// NotificationConfig holds the text of the success notification.
type NotificationConfig struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// HistoryConfig controls the submission journal. An empty Path disables it.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
	Keep int    `yaml:"keep"`
}

// WebConfig controls the HTML front end.
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Form.IDPolicy == "" {
		c.Form.IDPolicy = DefaultIDPolicy
	}
	if c.Notification.Title == "" {
		c.Notification.Title = form.DefaultTitle
	}
	if c.Notification.Message == "" {
		c.Notification.Message = form.DefaultMessage
	}
	if c.History.Keep == 0 {
		c.History.Keep = DefaultHistoryKeep
	}
	if c.Web.Addr == "" {
		c.Web.Addr = DefaultWebAddr
	}
}

// IDPolicy returns the parsed form id policy. Call Validate first; an invalid
// value falls back to form.IDMonotonic.
func (c *Config) IDPolicy() form.IDPolicy {
	p, err := form.ParseIDPolicy(c.Form.IDPolicy)
	if err != nil {
		return form.IDMonotonic
	}
	return p
}

// SessionOptions returns the form options described by the configuration.
func (c *Config) SessionOptions() form.Options {
	return form.Options{
		IDPolicy: c.IDPolicy(),
		Title:    c.Notification.Title,
		Message:  c.Notification.Message,
	}
}

// ExpandPath expands ~ and environment variables in a single path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

func marshalYAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
