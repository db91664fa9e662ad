package research

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// ConfigSource supplies routing configuration and change notifications.
// How the source detects changes (polling, inotify, nothing) is an
// implementation detail behind this interface.
type ConfigSource interface {
	// Load returns the current routing config.
	Load() (*RoutingConfig, error)

	// Watch invokes onChange with each newly loaded config until ctx is
	// cancelled. Implementations without change detection may return
	// immediately.
	Watch(ctx context.Context, onChange func(*RoutingConfig)) error
}

// StaticSource serves a fixed config and never reports changes.
// Useful for tests and embedded callers.
type StaticSource struct {
	Config *RoutingConfig
}

// Load returns the static config, defaulting when nil.
func (s StaticSource) Load() (*RoutingConfig, error) {
	if s.Config == nil {
		return DefaultRoutingConfig(), nil
	}
	return s.Config, nil
}

// Watch is a no-op for static configs.
func (s StaticSource) Watch(ctx context.Context, onChange func(*RoutingConfig)) error {
	return nil
}

// FileSource loads routing config from a YAML file and hot-reloads it on
// change. A missing file means built-in defaults, so operators can drop
// a file in (or delete it) at runtime without a restart.
type FileSource struct {
	Path string
}

// DefaultRoutingConfigPath is where disco init writes the editable
// routing policy.
const DefaultRoutingConfigPath = ".disco/routing.yaml"

// Load reads and validates the routing file, falling back to defaults
// when the file does not exist. Fields absent from the file keep their
// default values, so a file can override just the keyword lists.
func (f FileSource) Load() (*RoutingConfig, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return DefaultRoutingConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading routing config: %w", err)
	}

	cfg := DefaultRoutingConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing routing config %s: %w", f.Path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid routing config %s: %w", f.Path, err)
	}
	return cfg, nil
}

// Watch monitors the config file's directory and reloads on write,
// create, or rename of the file. Reload failures keep the previous
// config; a bad edit must never take the router down.
func (f FileSource) Watch(ctx context.Context, onChange func(*RoutingConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}

	// Watch the directory, not the file: editors rename-over the file,
	// which drops a direct file watch.
	dir := filepath.Dir(f.Path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(f.Path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				cfg, err := f.Load()
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: routing config reload failed, keeping previous: %v\n", err)
					continue
				}
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "warning: routing config watcher: %v\n", err)
			}
		}
	}()
	return nil
}
