package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reversi.pid")

	cleanup, err := managePIDFile(path, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))

	// Held by this running process
	_, err = managePIDFile(path, true)
	require.Error(t, err)

	cleanup()
	require.NoFileExists(t, path)
}

func TestCheckStalePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reversi.pid")

	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0644))
	require.ErrorContains(t, checkStalePID(path), "corrupted PID file")

	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644))
	require.ErrorContains(t, checkStalePID(path), "running process")
}
