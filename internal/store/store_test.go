package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prairie-data/wellscan/internal/config"
)

func TestNew_SQLiteDefault(t *testing.T) {
	s, err := New(context.Background(), config.StoreConfig{DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	assert.IsType(t, &SQLiteStore{}, s)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StoreConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown driver "oracle"`)
}
