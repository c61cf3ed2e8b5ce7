package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/pictoboard/internal/adapters/storage/storagetest"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

func TestStore_Contract(t *testing.T) {
	store, err := NewStore(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	storagetest.Run(t, store)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Path = t.TempDir()
	cfg.SyncWrites = false

	store, err := NewStore(cfg)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, ports.NamespaceLanguage, []byte(`"fr"`)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	data, err := reopened.Get(ctx, ports.NamespaceLanguage)
	require.NoError(t, err)
	assert.Equal(t, `"fr"`, string(data))
}

func TestStore_HealthCheck(t *testing.T) {
	store, err := NewStore(InMemoryConfig())
	require.NoError(t, err)

	assert.Equal(t, "storage", store.Name())
	require.NoError(t, store.Check(context.Background()))

	require.NoError(t, store.Close())
	assert.Error(t, store.Check(context.Background()))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := NewStore(Config{})
	assert.ErrorContains(t, err, "path is required")
}

func TestNewGCRunner_Validation(t *testing.T) {
	store, err := NewStore(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tests := []struct {
		name     string
		interval time.Duration
		ratio    float64
		wantErr  string
	}{
		{"zero interval", 0, 0.5, "interval must be positive"},
		{"ratio too low", time.Minute, 0, "ratio"},
		{"ratio too high", time.Minute, 1, "ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGCRunner(store.db, tt.interval, tt.ratio, nil)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err = NewGCRunner(nil, time.Minute, 0.5, nil)
	assert.ErrorContains(t, err, "db must not be nil")
}

func TestGCRunner_StartStop(t *testing.T) {
	store, err := NewStore(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	runner, err := NewGCRunner(store.db, 10*time.Millisecond, 0.5, nil)
	require.NoError(t, err)

	runner.Start()
	time.Sleep(30 * time.Millisecond)
	runner.Stop()
}
