package source

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrIntegrity reports a tarball whose digest does not match the
// upstream-published checksum. Such a file is treated as corrupted or
// tampered with and is never accepted.
var ErrIntegrity = errors.New("source: checksum mismatch")

// Verify computes the MD5 digest of the file at path and compares it,
// case-insensitively, to the expected hex checksum.
func Verify(path, checksum string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("source: failed to open %q for verification: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("source: failed to hash %q: %w", path, err)
	}

	sum := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(sum, checksum) {
		return fmt.Errorf("%w for %q: got %s, want %s", ErrIntegrity, path, sum, strings.ToLower(checksum))
	}

	return nil
}
