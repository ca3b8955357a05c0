package source_test

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"crossbuild/pkg/source"
)

func checksumOf(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func TestVerify(t *testing.T) {
	data := []byte("binutils release contents")
	path := filepath.Join(t.TempDir(), "binutils-2.42.tar.xz")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	checksum := checksumOf(data)

	// Deterministic: an unmodified file verifies every time.
	require.NoError(t, source.Verify(path, checksum))
	require.NoError(t, source.Verify(path, checksum))

	// Case of the expected digest must not matter.
	require.NoError(t, source.Verify(path, strings.ToUpper(checksum)))
}

func TestVerify_SingleByteMutation(t *testing.T) {
	data := []byte("gcc release contents, many bytes long")
	path := filepath.Join(t.TempDir(), "gcc-14.1.0.tar.xz")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	checksum := checksumOf(data)

	for i := range data {
		mutated := append([]byte(nil), data...)
		mutated[i] ^= 0x01
		require.NoError(t, os.WriteFile(path, mutated, 0o644))

		require.ErrorIs(t, source.Verify(path, checksum), source.ErrIntegrity)
	}
}

func TestVerify_MissingFile(t *testing.T) {
	err := source.Verify(filepath.Join(t.TempDir(), "nope.tar.xz"), "00000000000000000000000000000000")
	require.Error(t, err)
	require.NotErrorIs(t, err, source.ErrIntegrity)
}
