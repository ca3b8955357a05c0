/*
Package archive extracts release tarballs. It understands xz, gzip and
bzip2 compressed tar archives and refuses members that would escape the
destination directory.
*/
package archive

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ErrUnsupported is returned for archives whose extension does not map to
// a known compression format.
var ErrUnsupported = errors.New("archive: unsupported archive extension")

// ErrTraversal is returned when an archive member's resolved path lands
// outside the extraction destination. Extraction aborts without writing
// the member.
var ErrTraversal = errors.New("archive: path traversal attempt")

// Extract unpacks the tarball at path into dest, preserving file modes
// and recreating directories, symlinks and hard links. Any member whose
// resolved path would escape dest aborts the whole extraction with an
// error wrapping ErrTraversal.
func Extract(path, dest string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("archive: failed to open %q: %w", path, err)
	}
	defer f.Close()

	decompressed, err := decompressor(path, f)
	if err != nil {
		return err
	}

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("archive: failed to resolve %q: %w", dest, err)
	}

	tr := tar.NewReader(decompressed)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: failed to read %q: %w", path, err)
		}

		target, err := resolve(absDest, hdr.Name)
		if err != nil {
			return err
		}

		if err := extractMember(tr, hdr, absDest, target); err != nil {
			return fmt.Errorf("archive: failed to extract %q from %q: %w", hdr.Name, path, err)
		}
	}
}

func decompressor(path string, r io.Reader) (io.Reader, error) {
	switch {
	case strings.HasSuffix(path, ".tar.xz"):
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("archive: failed to read xz stream of %q: %w", path, err)
		}
		return xzr, nil
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("archive: failed to read gzip stream of %q: %w", path, err)
		}
		return gzr, nil
	case strings.HasSuffix(path, ".tar.bz2"):
		return bzip2.NewReader(r), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, filepath.Base(path))
	}
}

// resolve joins an archive member name onto dest and verifies the result
// stays inside dest.
func resolve(absDest, name string) (string, error) {
	target := filepath.Join(absDest, name)
	if !within(absDest, target) {
		return "", fmt.Errorf("%w: member %q", ErrTraversal, name)
	}
	return target, nil
}

func within(absDest, path string) bool {
	return path == absDest || strings.HasPrefix(path, absDest+string(os.PathSeparator))
}

func extractMember(tr *tar.Reader, hdr *tar.Header, absDest, target string) error {
	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, os.FileMode(hdr.Mode))
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	case tar.TypeSymlink:
		// A link target resolves relative to the link's own directory
		// and must stay inside the destination: a link escaping dest
		// would let a later member be written through it to the
		// outside, past the lexical check on member names.
		if filepath.IsAbs(hdr.Linkname) || !within(absDest, filepath.Join(filepath.Dir(target), hdr.Linkname)) {
			return fmt.Errorf("%w: link target %q", ErrTraversal, hdr.Linkname)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		// Replace any stale entry from a previous extraction.
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return os.Symlink(hdr.Linkname, target)
	case tar.TypeLink:
		// Hard link targets are archive members themselves and must
		// resolve inside the destination too.
		linkTarget, err := resolve(absDest, hdr.Linkname)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.Link(linkTarget, target)
	default:
		// Character devices, FIFOs and the like do not appear in GNU
		// release tarballs; skip them rather than fail.
		return nil
	}
}
