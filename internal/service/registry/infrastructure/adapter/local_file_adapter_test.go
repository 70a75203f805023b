package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileAdapter_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itens.json")
	a := NewLocalFileAdapter(path)
	assert.Equal(t, "local-file", a.Name())
	assert.Equal(t, path, a.Path())

	ctx := context.Background()
	require.NoError(t, a.Write(ctx, []byte(`[{"id":1}]`)))
	require.NoError(t, a.Write(ctx, []byte(`[{"id":2}]`)))

	data, err := a.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":2}]`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestLocalFileAdapter_ReadMissing(t *testing.T) {
	a := NewLocalFileAdapter(filepath.Join(t.TempDir(), "missing.json"))
	_, err := a.Read(context.Background())
	assert.Error(t, err)
}

func TestLocalFileAdapter_WriteIntoMissingDir(t *testing.T) {
	a := NewLocalFileAdapter(filepath.Join(t.TempDir(), "nope", "itens.json"))
	assert.Error(t, a.Write(context.Background(), []byte(`[]`)))
}

func TestLocalFileAdapter_WritesDespiteCanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itens.json")
	a := NewLocalFileAdapter(path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Write(ctx, []byte(`[{"id":1,"reservado":true}]`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"reservado":true}]`, string(data))
}
