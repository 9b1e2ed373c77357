package config

import (
	"testing"

	"github.com/AntoineGS/dynform/internal/form"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Form.IDPolicy != DefaultIDPolicy {
		t.Errorf("Form.IDPolicy = %q, want %q", cfg.Form.IDPolicy, DefaultIDPolicy)
	}
	if cfg.Notification.Title != form.DefaultTitle {
		t.Errorf("Notification.Title = %q, want %q", cfg.Notification.Title, form.DefaultTitle)
	}
	if cfg.History.Path != "" {
		t.Errorf("History.Path = %q, want empty (journal disabled)", cfg.History.Path)
	}
	if cfg.Web.Addr != DefaultWebAddr {
		t.Errorf("Web.Addr = %q, want %q", cfg.Web.Addr, DefaultWebAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		mutate  func(*Config)
		name    string
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "max_policy", mutate: func(c *Config) { c.Form.IDPolicy = "max" }},
		{name: "bad_policy", mutate: func(c *Config) { c.Form.IDPolicy = "uuid" }, wantErr: true},
		{name: "blank_title", mutate: func(c *Config) { c.Notification.Title = "  " }, wantErr: true},
		{name: "negative_keep", mutate: func(c *Config) { c.History.Keep = -1 }, wantErr: true},
		{name: "null_byte_path", mutate: func(c *Config) { c.History.Path = "a\x00b" }, wantErr: true},
		{name: "addr_without_port", mutate: func(c *Config) { c.Web.Addr = "localhost" }, wantErr: true},
		{name: "addr_with_host", mutate: func(c *Config) { c.Web.Addr = "127.0.0.1:8080" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SessionOptions(t *testing.T) {
	cfg := Default()
	cfg.Form.IDPolicy = "max"
	cfg.Notification.Title = "Saved"

	opts := cfg.SessionOptions()

	if opts.IDPolicy != form.IDMaxPlusOne {
		t.Errorf("IDPolicy = %v, want %v", opts.IDPolicy, form.IDMaxPlusOne)
	}
	if opts.Title != "Saved" {
		t.Errorf("Title = %q, want Saved", opts.Title)
	}
	if opts.Message != form.DefaultMessage {
		t.Errorf("Message = %q, want default", opts.Message)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	setTestHome(t, home)
	t.Setenv("DYNFORM_TEST_DIR", "/srv/forms")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "/abs/path", want: "/abs/path"},
		{in: "$DYNFORM_TEST_DIR/history.db", want: "/srv/forms/history.db"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
