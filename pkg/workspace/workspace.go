/*
Package workspace lays out and manages the per-target directories a
toolchain build runs in: the ephemeral work directory the sources unpack
into, the out-of-tree GCC object directory, the install prefix and the
staging root for unprivileged installs.
*/
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultCrossPrefix is the install root used when CROSS_PREFIX is unset.
const DefaultCrossPrefix = "/usr/local/cross/"

// A Layout holds every directory a build for one target platform touches.
// It is derived once per run; directories are unique per platform so
// builds for different platforms do not collide.
type Layout struct {
	// BaseDir is where tarballs live and the work directory is created.
	BaseDir string
	// WorkDir is the ephemeral per-platform build tree, <base>/<platform>.
	WorkDir string
	// ObjDir is the out-of-tree GCC build directory. GCC's build system
	// requires building outside its source tree.
	ObjDir string
	// Prefix is the final install root for this platform's toolchain.
	Prefix string
	// StageDir is the staging root used instead of the real filesystem
	// root when no system-wide install was requested.
	StageDir string
}

// New derives the layout for a platform. crossPrefix overrides the
// default install root; pass the CROSS_PREFIX environment value or "".
func New(baseDir, platform, crossPrefix string) Layout {
	if crossPrefix == "" {
		crossPrefix = DefaultCrossPrefix
	}

	workDir := filepath.Join(baseDir, platform)

	return Layout{
		BaseDir:  baseDir,
		WorkDir:  workDir,
		ObjDir:   filepath.Join(workDir, "gcc-obj"),
		Prefix:   filepath.Join(crossPrefix, platform),
		StageDir: filepath.Join(baseDir, "PKG"),
	}
}

// SourceDir returns the directory a tool's tarball unpacks into.
func (l Layout) SourceDir(tool string) string {
	return filepath.Join(l.WorkDir, tool)
}

// Prepare wipes and recreates the work directory and the GCC object
// directory, guaranteeing a clean slate: a stale tree from an aborted run
// cannot leak state into this one. When install is true the install
// prefix is wiped and recreated too - destructive for any toolchain
// already at that prefix. Prepare is idempotent.
func (l Layout) Prepare(install bool) error {
	if install {
		if err := recreate(l.Prefix); err != nil {
			return err
		}
	}

	if err := recreate(l.WorkDir); err != nil {
		return err
	}

	return create(l.ObjDir)
}

// Remove deletes the work directory, reclaiming the disk space held by
// the unpacked sources and build objects. The install prefix and staging
// directory are left alone.
func (l Layout) Remove() error {
	if err := os.RemoveAll(l.WorkDir); err != nil {
		return fmt.Errorf("workspace: failed to remove %q: %w", l.WorkDir, err)
	}
	return nil
}

func recreate(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("workspace: failed to remove %q: %w", path, err)
	}
	return create(path)
}

func create(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("workspace: failed to create %q: %w", path, err)
	}
	return nil
}
