package relocate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixSymlinks(t *testing.T) {
	ctx := testCtx(t)

	t.Run("absolute link becomes relative with same target", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "srv", "www"), 0755))
		require.NoError(t, os.MkdirAll(filepath.Join(root, "srv", "data"), 0755))
		link := filepath.Join(root, "srv", "www", "html")
		require.NoError(t, os.Symlink("/srv/data", link))

		env := NewEnvironment(root, "/opt/venv")
		err := FixSymlinks(ctx, env)
		assert.NoError(t, err)

		linkTarget, err := os.Readlink(link)
		require.NoError(t, err)
		assert.False(t, filepath.IsAbs(linkTarget))

		// round-trip: the link still resolves to the same path
		resolved := filepath.Join(filepath.Dir(link), linkTarget)
		assert.Equal(t, filepath.Join(root, "srv", "data"), filepath.Clean(resolved))
	})
	t.Run("dangling target reported and skipped", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "srv"), 0755))
		link := filepath.Join(root, "srv", "broken")
		require.NoError(t, os.Symlink("/var/lib/nothing", link))

		env := NewEnvironment(root, "/opt/venv")
		err := FixSymlinks(ctx, env)
		assert.NoError(t, err)

		linkTarget, err := os.Readlink(link)
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/nothing", linkTarget)
	})
	t.Run("links outside the swept directories untouched", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "usr"), 0755))
		require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0755))
		link := filepath.Join(root, "usr", "cfg")
		require.NoError(t, os.Symlink("/etc", link))

		env := NewEnvironment(root, "/opt/venv")
		err := FixSymlinks(ctx, env)
		assert.NoError(t, err)

		linkTarget, err := os.Readlink(link)
		require.NoError(t, err)
		assert.Equal(t, "/etc", linkTarget)
	})
}
