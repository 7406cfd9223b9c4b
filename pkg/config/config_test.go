package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/butter-bot-machines/cfile/pkg/config/env"
	"github.com/butter-bot-machines/cfile/pkg/fs/billy"
	"github.com/butter-bot-machines/cfile/pkg/fs/local"
	"github.com/butter-bot-machines/cfile/pkg/fs/memory"
	"github.com/butter-bot-machines/cfile/pkg/logging"
)

func TestConfigLoading(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := []byte(`
version: "1.0"
root: /srv/files
provider: billy-os
create_perm: 0600
log:
  level: debug
  format: text
follow:
  debounce: 50ms
  max_delay: 2s
service:
  max_handles: 8
`)
	if err := os.WriteFile(configPath, configData, 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Root != "/srv/files" {
		t.Errorf("Expected root '/srv/files', got '%s'", cfg.Root)
	}
	if cfg.Provider != ProviderBillyOS {
		t.Errorf("Expected provider billy-os, got '%s'", cfg.Provider)
	}
	if cfg.CreatePerm != 0600 {
		t.Errorf("Expected create_perm 0600, got %o", cfg.CreatePerm)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Unexpected log config: %+v", cfg.Log)
	}
	if cfg.Follow.Debounce != 50*time.Millisecond || cfg.Follow.MaxDelay != 2*time.Second {
		t.Errorf("Unexpected follow config: %+v", cfg.Follow)
	}
	if cfg.Service.MaxHandles != 8 {
		t.Errorf("Expected max_handles 8, got %d", cfg.Service.MaxHandles)
	}
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load of a missing file failed: %v", err)
	}
	if cfg.Provider != ProviderLocal || cfg.Service.MaxHandles != 64 {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("version: \"1.0\"\nprovider: memory\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Follow.Debounce != 100*time.Millisecond {
		t.Errorf("Expected default debounce, got %v", cfg.Follow.Debounce)
	}
	if cfg.CreatePerm != Perm(local.DefaultPerm) {
		t.Errorf("Expected default perm, got %o", cfg.CreatePerm)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"version", func(c *Config) { c.Version = "2.0" }, ErrUnsupportedVer},
		{"provider", func(c *Config) { c.Provider = "s3" }, ErrInvalidConfig},
		{"root", func(c *Config) { c.Root = "" }, ErrInvalidConfig},
		{"memory needs no root", func(c *Config) { c.Provider = ProviderMemory; c.Root = "" }, nil},
		{"log level", func(c *Config) { c.Log.Level = "chatty" }, ErrInvalidConfig},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, ErrInvalidConfig},
		{"debounce", func(c *Config) { c.Follow.Debounce = 0 }, ErrInvalidConfig},
		{"max delay", func(c *Config) { c.Follow.MaxDelay = time.Millisecond }, ErrInvalidConfig},
		{"max handles", func(c *Config) { c.Service.MaxHandles = 0 }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_BadPerm(t *testing.T) {
	_, err := Parse([]byte("version: \"1.0\"\ncreate_perm: 0999\n"))
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Parse() = %v, want ErrInvalidValue", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env.FromMap(map[string]string{
		EnvRoot:      "/data",
		EnvProvider:  "MEMORY",
		EnvLogLevel:  "warn",
		EnvLogFormat: "json",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Root != "/data" || cfg.Provider != ProviderMemory {
		t.Errorf("Unexpected overrides: root=%s provider=%s", cfg.Root, cfg.Provider)
	}

	opts, err := cfg.LoggerOptions(nil)
	if err != nil {
		t.Fatalf("LoggerOptions failed: %v", err)
	}
	if opts.Level != logging.LevelWarn || opts.Format != logging.FormatJSON {
		t.Errorf("Unexpected logger options: %+v", opts)
	}

	if err := Default().ApplyEnv(env.FromMap(map[string]string{EnvProvider: "ftp"})); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ApplyEnv(bad provider) = %v, want ErrInvalidConfig", err)
	}
}

func TestNewProvider(t *testing.T) {
	cfg := Default()
	cfg.Root = t.TempDir()

	tests := []struct {
		kind  ProviderKind
		check func(interface{}) bool
	}{
		{ProviderLocal, func(p interface{}) bool { _, ok := p.(*local.Provider); return ok }},
		{ProviderBillyOS, func(p interface{}) bool { _, ok := p.(*billy.Provider); return ok }},
		{ProviderMemory, func(p interface{}) bool { _, ok := p.(*memory.FS); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			cfg.Provider = tt.kind
			p, err := NewProvider(cfg)
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if !tt.check(p) {
				t.Errorf("NewProvider returned %T", p)
			}
		})
	}
}

func TestNewProvider_CreatePerm(t *testing.T) {
	for _, kind := range []ProviderKind{ProviderLocal, ProviderBillyOS} {
		t.Run(string(kind), func(t *testing.T) {
			cfg := Default()
			cfg.Root = t.TempDir()
			cfg.Provider = kind
			cfg.CreatePerm = 0600

			p, err := NewProvider(cfg)
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			f, err := p.Create("new.bin")
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			f.Close()

			fi, err := os.Stat(filepath.Join(cfg.Root, "new.bin"))
			if err != nil {
				t.Fatalf("Stat failed: %v", err)
			}
			if fi.Mode().Perm() != 0600 {
				t.Errorf("Expected mode 0600, got %v", fi.Mode().Perm())
			}
		})
	}
}

func TestParseProviderKind(t *testing.T) {
	tests := map[string]ProviderKind{
		"local":      ProviderLocal,
		"LOCAL":      ProviderLocal,
		" Billy-OS ": ProviderBillyOS,
		"Memory":     ProviderMemory,
	}
	for in, want := range tests {
		if got := ParseProviderKind(in); got != want {
			t.Errorf("ParseProviderKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestManager_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cfile.yaml")
	m := NewManager(path)

	cfg := Default()
	cfg.Root = "/exports"
	cfg.CreatePerm = 0640
	if err := m.Set(cfg); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "0640") {
		t.Errorf("Unexpected saved config:\n%s", data)
	}

	loaded := NewManager(path)
	if err := loaded.Load(env.FromMap(nil)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := loaded.Get(); got.Root != "/exports" || got.CreatePerm != 0640 {
		t.Errorf("Round trip lost values: %+v", got)
	}

	bad := Default()
	bad.Version = ""
	if err := m.Set(bad); err == nil {
		t.Error("Set accepted an invalid configuration")
	}
}
