package relocate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallShims(t *testing.T) {
	ctx := testCtx(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0755))

	binary := []byte("\x7fELF pretend interpreter")
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "python3"), binary, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "nova-api"), []byte("#!/bin/sh\n"), 0755))

	env := NewEnvironment(root, "/opt/venv")
	err := InstallShims(ctx, env)
	assert.NoError(t, err)

	// the real binary moved aside untouched
	data, err := os.ReadFile(filepath.Join(root, "bin", "python3.original"))
	require.NoError(t, err)
	assert.Equal(t, binary, data)

	// the shim exports the environment and execs the original at its
	// relocated path
	shim := filepath.Join(root, "bin", "python3")
	data, err = os.ReadFile(shim)
	require.NoError(t, err)
	assert.Contains(t, string(data), `export VIRTUAL_ENV="/opt/venv"`)
	assert.Contains(t, string(data), `export PATH="$VIRTUAL_ENV/bin:$PATH"`)
	assert.Contains(t, string(data), `exec /opt/venv/bin/python3.original "$@"`)

	info, err := os.Stat(shim)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o111)

	// unrelated binaries are not wrapped
	assert.NoFileExists(t, filepath.Join(root, "bin", "nova-api.original"))
}
