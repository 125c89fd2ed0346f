package patternfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	write := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "exclude-rpm")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("normal", func(t *testing.T) {
		l, err := Load(write(t, "# packages to skip\n\n.*-debuginfo$\npython3.*\n"))
		require.NoError(t, err)

		assert.True(t, l.IsPopulated())
		assert.True(t, l.Matches("foo-debuginfo"))
		assert.True(t, l.Matches("python3-requests"))
		assert.False(t, l.Matches("foo"))
	})
	t.Run("comments and blanks only", func(t *testing.T) {
		l, err := Load(write(t, "# nothing here\n\n   \n"))
		require.NoError(t, err)

		assert.False(t, l.IsPopulated())
		assert.False(t, l.Matches("anything"))
	})
	t.Run("missing file", func(t *testing.T) {
		l, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
		require.NoError(t, err)

		assert.False(t, l.IsPopulated())
	})
	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Load(write(t, "*broken\n"))
		assert.Error(t, err)
	})
	t.Run("patterns are not anchored", func(t *testing.T) {
		l, err := Load(write(t, "base\n"))
		require.NoError(t, err)

		assert.True(t, l.Matches("python-base"))
		assert.True(t, l.Matches("basesystem"))
	})
}
