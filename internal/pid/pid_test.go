package pid_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/bulbctl/internal/errors"
	"codeberg.org/mutker/bulbctl/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	dir := t.TempDir()
	f := pid.New(dir, "192.168.1.42")
	assert.Equal(t, filepath.Join(dir, "bulbctl-192.168.1.42.pid"), f.Path())

	require.NoError(t, f.Write())

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	require.NoError(t, f.Write(), "rewriting our own pid is allowed")

	require.NoError(t, f.Remove())
	_, err = os.Stat(f.Path())
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, f.Remove(), "removing a missing file is not an error")
}

func TestWriteRejectsLiveProcess(t *testing.T) {
	dir := t.TempDir()
	f := pid.New(dir, "desk")

	// The parent of the test binary is alive for the duration of the test.
	require.NoError(t, os.WriteFile(f.Path(), []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := f.Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteReplacesStaleFile(t *testing.T) {
	dir := t.TempDir()
	f := pid.New(dir, "desk")

	require.NoError(t, os.WriteFile(f.Path(), []byte("not-a-pid"), 0o600))
	require.NoError(t, f.Write())

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
}

func TestNameIsSanitized(t *testing.T) {
	f := pid.New("/run", "living room/lamp")
	assert.Equal(t, "/run/bulbctl-living_room_lamp.pid", f.Path())
}
