package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireLock(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, LockName), lock.Path)

	content, err := os.ReadFile(lock.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), lock.ID.String())

	_, err = AcquireLock(dir)
	require.ErrorIs(t, err, ErrLocked)
	assert.Contains(t, err.Error(), lock.ID.String())

	require.NoError(t, lock.Release())
	assert.NoFileExists(t, lock.Path)
	require.NoError(t, lock.Release(), "releasing twice is harmless")

	again, err := AcquireLock(dir)
	require.NoError(t, err)
	assert.NotEqual(t, lock.ID, again.ID)
	require.NoError(t, again.Release())
}

func TestAcquireLock_MissingDir(t *testing.T) {
	_, err := AcquireLock(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
}
