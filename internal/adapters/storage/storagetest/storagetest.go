// Package storagetest holds the behavior every ports.BlobStore must share.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// Run exercises store against the BlobStore contract.
// The store must be empty and is not closed by Run.
func Run(t *testing.T, store ports.BlobStore) {
	t.Helper()

	ctx := context.Background()

	t.Run("missing namespace", func(t *testing.T) {
		_, err := store.Get(ctx, "never-written")
		require.ErrorIs(t, err, ports.ErrBlobNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, ports.NamespaceSymbolCache, []byte(`{"pt:gato":[{"id":2349}]}`)))

		data, err := store.Get(ctx, ports.NamespaceSymbolCache)
		require.NoError(t, err)
		assert.JSONEq(t, `{"pt:gato":[{"id":2349}]}`, string(data))
	})

	t.Run("put replaces whole blob", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, ports.NamespaceTheme, []byte(`"light"`)))
		require.NoError(t, store.Put(ctx, ports.NamespaceTheme, []byte(`"dark"`)))

		data, err := store.Get(ctx, ports.NamespaceTheme)
		require.NoError(t, err)
		assert.Equal(t, `"dark"`, string(data))
	})

	t.Run("namespaces are independent", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, ports.NamespaceLanguage, []byte(`"es"`)))
		require.NoError(t, store.Put(ctx, ports.NamespaceLibrary, []byte(`[]`)))

		lang, err := store.Get(ctx, ports.NamespaceLanguage)
		require.NoError(t, err)
		assert.Equal(t, `"es"`, string(lang))

		lib, err := store.Get(ctx, ports.NamespaceLibrary)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(lib))
	})

	t.Run("returned bytes are not aliased", func(t *testing.T) {
		in := []byte(`"pt"`)
		require.NoError(t, store.Put(ctx, "alias", in))
		in[1] = 'x'

		out, err := store.Get(ctx, "alias")
		require.NoError(t, err)
		assert.Equal(t, `"pt"`, string(out))
	})

	t.Run("concurrent puts", func(t *testing.T) {
		var wg sync.WaitGroup

		for i := range 20 {
			wg.Go(func() {
				assert.NoError(t, store.Put(ctx, fmt.Sprintf("ns-%d", i), []byte(fmt.Sprint(i))))
			})
		}

		wg.Wait()

		for i := range 20 {
			data, err := store.Get(ctx, fmt.Sprintf("ns-%d", i))
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprint(i), string(data))
		}
	})
}
