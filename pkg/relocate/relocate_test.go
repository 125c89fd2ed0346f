package relocate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx(t *testing.T) context.Context {
	return logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
}

const activateScript = `# This file must be used with "source bin/activate"
deactivate nondestructive

VIRTUAL_ENV="/home/abuild/rpmbuild/BUILD/venv"
export VIRTUAL_ENV
`

// scaffold builds the smallest tree every stage can run over.
func scaffold(t *testing.T, root string) {
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "activate"), []byte(activateScript), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "activate.csh"),
		[]byte("deactivate nondestructive\nsetenv VIRTUAL_ENV \"/build\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "activate.fish"),
		[]byte("deactivate nondestructive\nset -gx VIRTUAL_ENV \"/build\"\n"), 0644))
}

func TestStages_Order(t *testing.T) {
	var names []string
	for _, stage := range Stages() {
		names = append(names, stage.Name)
	}
	assert.Equal(t, []string{
		"permissions",
		"alternatives",
		"symlinks",
		"shebangs",
		"activators",
		"shims",
		"systemd",
	}, names)
}

func TestFix(t *testing.T) {
	ctx := testCtx(t)

	t.Run("full tree", func(t *testing.T) {
		root := t.TempDir()
		scaffold(t, root)
		require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "python3"), []byte("\x7fELF fake"), 0755))

		env := NewEnvironment(root, "/opt/venv")
		err := Fix(ctx, env)
		assert.NoError(t, err)

		assert.FileExists(t, filepath.Join(root, "bin", "python3.original"))
	})
	t.Run("missing anchor aborts before later stages", func(t *testing.T) {
		root := t.TempDir()
		scaffold(t, root)
		// strip the anchor from the csh activator
		require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "activate.csh"),
			[]byte("setenv VIRTUAL_ENV \"/build\"\n"), 0644))
		unitDir := filepath.Join(root, "lib", "systemd", "system")
		require.NoError(t, os.MkdirAll(unitDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(unitDir, "nova.service"),
			[]byte("[Service]\nExecStart=/usr/bin/nova-api\n"), 0644))

		env := NewEnvironment(root, "/opt/venv")
		err := Fix(ctx, env)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAnchorNotFound)

		// the systemd stage never ran
		assert.FileExists(t, filepath.Join(unitDir, "nova.service"))
		assert.NoFileExists(t, filepath.Join(unitDir, "venv-nova.service"))
	})
}
