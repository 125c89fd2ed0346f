package venv

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

// fakePython stands in for the python3 binary so the test does not
// depend on a python installation. It creates the destination
// directory passed as the last argument, like 'python3 -m venv'.
func fakePython(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "python3")
	script := "#!/bin/sh\nfor last; do :; done\nmkdir -p \"$last/bin\"\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestBuilder_Create(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	destDir := filepath.Join(t.TempDir(), "venv")

	builder := &Builder{Python: fakePython(t)}
	err := builder.Create(ctx, destDir)
	assert.NoError(t, err)

	for name, target := range map[string]string{
		"bin":   "../bin",
		"lib":   "../lib",
		"lib64": "../lib",
	} {
		linkTarget, err := os.Readlink(filepath.Join(destDir, "usr", name))
		require.NoError(t, err)
		assert.Equal(t, target, linkTarget)
	}
}

func TestBuilder_Create_badInterpreter(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	builder := &Builder{Python: "/nonexistent/python3"}
	err := builder.Create(ctx, filepath.Join(t.TempDir(), "venv"))
	assert.Error(t, err)
}
