package research

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceMissingFileUsesDefaults(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "routing.yaml")}
	cfg, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultRoutingConfig().FallbackOrder, cfg.FallbackOrder)
}

func TestFileSourcePartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fallback_order: [llm, docs]
routing_rules:
  general:
    - provider: docs
      condition: always
`), 0644))

	cfg, err := FileSource{Path: path}.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"llm", "docs"}, cfg.FallbackOrder)
	assert.Equal(t, ProviderDocs, cfg.RoutingRules[QueryGeneral][0].Provider)
	// Untouched sections keep their defaults.
	assert.NotEmpty(t, cfg.Keywords.Technical)
	assert.Equal(t, ProviderDocs, cfg.RoutingRules[QueryTechnical][0].Provider)
}

func TestFileSourceRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
routing_rules:
  general:
    - provider: docs
      condition: sometimes
`), 0644))

	_, err := FileSource{Path: path}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "condition")
}

func TestFileSourceWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routing.yaml")
	src := FileSource{Path: path}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *RoutingConfig, 1)
	require.NoError(t, src.Watch(ctx, func(cfg *RoutingConfig) {
		select {
		case changes <- cfg:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte("fallback_order: [llm]\n"), 0644))

	select {
	case cfg := <-changes:
		assert.Equal(t, []string{"llm"}, cfg.FallbackOrder)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not observe the config write")
	}
}

func TestStaticSourceDefaults(t *testing.T) {
	cfg, err := StaticSource{}.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}
