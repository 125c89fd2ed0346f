package relocate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixAlternatives(t *testing.T) {
	ctx := testCtx(t)

	t.Run("sibling exists", func(t *testing.T) {
		root := t.TempDir()
		bin := filepath.Join(root, "usr", "bin")
		require.NoError(t, os.MkdirAll(bin, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(bin, "python3-3.8"), []byte("real\n"), 0755))
		require.NoError(t, os.Symlink("/etc/alternatives/python3", filepath.Join(bin, "python3")))

		env := NewEnvironment(root, "/opt/venv")
		err := FixAlternatives(ctx, env)
		assert.NoError(t, err)

		linkTarget, err := os.Readlink(filepath.Join(bin, "python3"))
		require.NoError(t, err)
		assert.Equal(t, "/opt/venv/usr/bin/python3-3.8", linkTarget)
	})
	t.Run("sibling missing is reported and skipped", func(t *testing.T) {
		root := t.TempDir()
		bin := filepath.Join(root, "usr", "bin")
		require.NoError(t, os.MkdirAll(bin, 0755))
		require.NoError(t, os.Symlink("/etc/alternatives/pip3", filepath.Join(bin, "pip3")))

		env := NewEnvironment(root, "/opt/venv")
		err := FixAlternatives(ctx, env)
		assert.NoError(t, err)

		linkTarget, err := os.Readlink(filepath.Join(bin, "pip3"))
		require.NoError(t, err)
		assert.Equal(t, "/etc/alternatives/pip3", linkTarget)
	})
	t.Run("ordinary links untouched", func(t *testing.T) {
		root := t.TempDir()
		bin := filepath.Join(root, "usr", "bin")
		require.NoError(t, os.MkdirAll(bin, 0755))
		require.NoError(t, os.Symlink("nova-api", filepath.Join(bin, "nova")))

		env := NewEnvironment(root, "/opt/venv")
		err := FixAlternatives(ctx, env)
		assert.NoError(t, err)

		linkTarget, err := os.Readlink(filepath.Join(bin, "nova"))
		require.NoError(t, err)
		assert.Equal(t, "nova-api", linkTarget)
	})
}
