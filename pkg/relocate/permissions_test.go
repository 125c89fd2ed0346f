package relocate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixPermissions(t *testing.T) {
	ctx := testCtx(t)
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0700))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc", "sudoers.d"), 0700))

	env := NewEnvironment(root, "/opt/venv")
	err := FixPermissions(ctx, env)
	assert.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "etc"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(root, "etc", "sudoers.d"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())

	// directories absent from the tree are simply skipped
	assert.NoDirExists(t, filepath.Join(root, "var"))
}
