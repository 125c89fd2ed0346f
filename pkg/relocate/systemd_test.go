package relocate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const novaUnit = `[Unit]
Description=OpenStack Compute API

[Service]
ExecStartPre=-/usr/bin/nova-manage db sync
ExecStart=/usr/bin/nova-api --config-file /etc/nova/nova.conf

[Install]
WantedBy=multi-user.target
`

func TestFixSystemdUnits(t *testing.T) {
	ctx := testCtx(t)
	root := t.TempDir()

	unitDir := filepath.Join(root, "usr", "lib", "systemd", "system")
	require.NoError(t, os.MkdirAll(unitDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(unitDir, "openstack-nova-api.service"), []byte(novaUnit), 0444))

	env := NewEnvironment(root, "/opt/venv")
	err := FixSystemdUnits(ctx, env)
	assert.NoError(t, err)

	// renamed so it cannot shadow the host unit
	assert.NoFileExists(t, filepath.Join(unitDir, "openstack-nova-api.service"))
	renamed := filepath.Join(unitDir, "venv-openstack-nova-api.service")
	require.FileExists(t, renamed)

	data, err := os.ReadFile(renamed)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ExecStart=/opt/venv/usr/bin/nova-api --config-file /etc/nova/nova.conf")
	assert.Contains(t, string(data), "ExecStartPre=-/opt/venv/usr/bin/nova-manage db sync")

	// read-only mode restored after the edit
	info, err := os.Stat(renamed)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o444), info.Mode().Perm())
}
