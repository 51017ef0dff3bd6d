package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/theirongolddev/presu/internal/config"
	mock_store "github.com/theirongolddev/presu/internal/store/mocks"
)

type doc struct {
	Name string `json:"name"`
}

func TestJSONHelpers_Memory(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	var got doc
	ok, err := LoadJSON(ctx, kv, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveJSON(ctx, kv, "k", doc{Name: "Acme"}))
	ok, err = LoadJSON(ctx, kv, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Acme", got.Name)
}

func TestLoadJSON_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, "k", []byte("{not json")))

	var got doc
	_, err := LoadJSON(ctx, kv, "k", &got)
	assert.Error(t, err)
}

func TestJSONHelpers_PropagateBackendErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mock_store.NewMockKV(ctrl)
	boom := errors.New("disk full")

	kv.EXPECT().Get(gomock.Any(), "k").Return(nil, false, boom)
	kv.EXPECT().Set(gomock.Any(), "k", []byte(`{"name":"x"}`)).Return(boom)

	var got doc
	_, err := LoadJSON(context.Background(), kv, "k", &got)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, SaveJSON(context.Background(), kv, "k", doc{Name: "x"}), boom)
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	in := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", in))
	in[0] = 'X'

	out, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(out))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, config.StorageConfig{Backend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open(ctx, config.StorageConfig{Backend: config.BackendSQLite, Path: t.TempDir() + "/p.db"})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	require.NoError(t, kv.Close())

	_, err = Open(ctx, config.StorageConfig{Backend: "redis"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
