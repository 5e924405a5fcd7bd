//go:build !gui

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbsLocation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0644))

	abs, err := absLocation(file)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(abs))

	_, err = absLocation(filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
}

func TestNewAppCommands(t *testing.T) {
	a := newApp()
	names := make(map[string]bool)
	for _, cmd := range a.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"add", "ls", "rm", "reset"} {
		require.True(t, names[want], "missing command %q", want)
	}
}
