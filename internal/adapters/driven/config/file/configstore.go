package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
	"github.com/custodia-labs/gfacade/internal/logger"
)

// Ensure ConfigStore implements the interfaces.
var (
	_ driven.ConfigStore   = (*ConfigStore)(nil)
	_ driven.ConfigWatcher = (*ConfigStore)(nil)
)

// Format is the on-disk encoding of a config file.
type Format string

const (
	// FormatTOML stores configuration as config.toml.
	FormatTOML Format = "toml"
	// FormatYAML stores configuration as config.yaml.
	FormatYAML Format = "yaml"
)

// ConfigStore is a file-based implementation of driven.ConfigStore.
// Configuration is stored in config.toml, or config.yaml when that file
// exists instead, within the gfacade config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	format   Format
	data     map[string]any
}

// NewConfigStore creates a new file-backed config store.
// If configDir is empty, defaults to ~/.gfacade. An existing config.yaml
// (or config.yml) selects YAML; otherwise config.toml is used.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".gfacade")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		format:   FormatTOML,
		data:     make(map[string]any),
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(configDir, name)
		if _, err := os.Stat(candidate); err == nil {
			s.filePath = candidate
			s.format = FormatYAML
			break
		}
	}

	// Load existing data if file exists
	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Format returns the encoding used for the config file.
func (s *ConfigStore) Format() Format {
	return s.format
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// Keys returns every flattened key.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the config file (caller must hold lock).
func (s *ConfigStore) save() error {
	var (
		data []byte
		err  error
	)
	switch s.format {
	case FormatYAML:
		data, err = yaml.Marshal(s.data)
	default:
		data, err = toml.Marshal(s.data)
	}
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the config file.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - that's fine, start empty
			s.mu.Lock()
			s.data = make(map[string]any)
			s.mu.Unlock()
			return nil
		}
		return err
	}
	return s.parse(data)
}

// parse decodes data and replaces the loaded configuration.
func (s *ConfigStore) parse(data []byte) error {
	var (
		loaded map[string]any
		err    error
	)
	switch s.format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = toml.Unmarshal(data, &loaded)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(s.filePath), err)
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Flatten nested maps into dot-notation keys for easier access
	s.data = flattenMap(loaded, "")
	return nil
}

// reload re-reads the file for Watch. An empty file is skipped: writers
// truncate before writing, so it is usually a write in progress.
func (s *ConfigStore) reload() (bool, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return false, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	return true, s.parse(data)
}

// WatchDebounce is how long Watch waits after the last file event before
// reloading, so a burst of events from one save triggers one reload.
var WatchDebounce = 100 * time.Millisecond

// Watch reloads the file whenever it is written, created or renamed into
// place, calling onChange after each successful reload. The directory is
// watched rather than the file so editors that replace the file are seen.
func (s *ConfigStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.filePath), err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.filePath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
				fire = timer.C
			} else {
				timer.Reset(WatchDebounce)
			}
		case <-fire:
			loaded, err := s.reload()
			if err != nil {
				logger.Warn("reload %s: %v", s.filePath, err)
				continue
			}
			if !loaded {
				logger.Debug("skipped reload of empty %s", s.filePath)
				continue
			}
			logger.Debug("reloaded %s", s.filePath)
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				return fmt.Errorf("watch config: %w", err)
			}
		}
	}
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch nested := value.(type) {
		case map[string]any:
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		case map[any]any:
			converted := make(map[string]any, len(nested))
			for k, v := range nested {
				converted[fmt.Sprint(k)] = v
			}
			for k, v := range flattenMap(converted, fullKey) {
				result[k] = v
			}
		default:
			result[fullKey] = value
		}
	}

	return result
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
