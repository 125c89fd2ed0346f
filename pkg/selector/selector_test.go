package selector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openSUSE/venvjail/pkg/patternfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, content string) *patternfile.List {
	path := filepath.Join(t.TempDir(), "patterns")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	l, err := patternfile.Load(path)
	require.NoError(t, err)
	return l
}

func TestSelect(t *testing.T) {
	empty := load(t, "")

	t.Run("exclude takes precedence", func(t *testing.T) {
		exclude := load(t, "python3.*\n")
		include := load(t, "python3.*\n")

		assert.Equal(t, Excluded, Select("python3-requests", exclude, include))
	})
	t.Run("empty include admits by default", func(t *testing.T) {
		exclude := load(t, ".*-doc$\n")

		assert.Equal(t, Included, Select("nova", exclude, empty))
		assert.Equal(t, Excluded, Select("nova-doc", exclude, empty))
	})
	t.Run("populated include is an allow-list", func(t *testing.T) {
		include := load(t, "^nova.*\n")

		assert.Equal(t, Included, Select("nova-compute", empty, include))
		assert.Equal(t, Excluded, Select("glance", empty, include))
	})
}
