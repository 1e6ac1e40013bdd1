// Package engineutil_test tests model and binary resolution.
package engineutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/curriculum-audio/internal/engine/engineutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModelPathFindsAbsolutePath(t *testing.T) {
	t.Parallel()

	modelPath := filepath.Join(t.TempDir(), "cosyvoice.bin")
	require.NoError(t, os.WriteFile(modelPath, []byte("weights"), 0o600))

	resolved, err := engineutil.ResolveModelPath(modelPath)
	require.NoError(t, err)
	assert.Equal(t, modelPath, resolved)
}

func TestResolveModelPathMissingModel(t *testing.T) {
	t.Parallel()

	_, err := engineutil.ResolveModelPath(
		filepath.Join(t.TempDir(), "no-such-model.bin"),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, engineutil.ErrModelNotFound)
}

func TestResolveBinaryMissing(t *testing.T) {
	t.Parallel()

	_, err := engineutil.ResolveBinary("no-such-synthesis-binary")
	require.Error(t, err)
	assert.ErrorIs(t, err, engineutil.ErrBinaryNotFound)
}

func TestCacheDirHonorsOverride(t *testing.T) {
	t.Setenv("CACHE_DIR", "/opt/cache")

	assert.Equal(t, "/opt/cache", engineutil.CacheDir())
}
