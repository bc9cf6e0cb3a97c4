package memfile

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWriteReadRoundTrip(t *testing.T) {
	f, err := Create(64)
	require.NoError(t, err)
	defer f.Close()

	w, err := f.Writer()
	require.NoError(t, err)
	_, err = w.Write([]byte("hello, memfd"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.True(t, strings.HasPrefix(f.Path(), "/proc/self/fd/"))

	contents, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(contents), "hello, memfd"))
}

func TestTakeTransfersOwnership(t *testing.T) {
	f, err := Create(16)
	require.NoError(t, err)

	fd := f.Take()
	defer os.NewFile(uintptr(fd), "taken").Close()

	assert.Equal(t, -1, f.Fd())
	require.NoError(t, f.Close()) // no-op, descriptor already moved out
}

func TestCloseIsIdempotent(t *testing.T) {
	f, err := Create(16)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}
