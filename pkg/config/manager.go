package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Manager owns the configuration file at a path
type Manager struct {
	mu     sync.RWMutex
	config *Config
	path   string
}

// NewManager creates a manager for the file at path
func NewManager(path string) *Manager {
	return &Manager{
		config: Default(),
		path:   path,
	}
}

// Path returns the configuration file path
func (m *Manager) Path() string {
	return m.path
}

// Load reads the file, then applies env overrides when env is non-nil
func (m *Manager) Load(env Environment) error {
	config, err := Load(m.path)
	if err != nil {
		return err
	}
	if env != nil {
		if err := config.ApplyEnv(env); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Set validates and replaces the current configuration
func (m *Manager) Set(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
	return nil
}

// Save writes the current configuration to the file
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.config.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
