/*
Package source describes the upstream GNU release tarballs a cross-toolchain
is built from and retrieves them from a mirror, verifying their integrity
against the published checksums.
*/
package source

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Pinned upstream releases. Overridable through a crossbuild.toml file,
// see Load.
const (
	BinutilsVersion = "2.42"
	GCCVersion      = "14.1.0"
	GDBVersion      = "14.2"

	binutilsChecksum = "a075178a9646551379bfb64040487715"
	gccChecksum      = "24195dca80ded5e0551b533f46a4481d"
	gdbChecksum      = "4452f575d09f94276cb0a1e95ecff856"
)

// DefaultMirror hosts the GNU release archives over both FTP and HTTPS.
const DefaultMirror = "ftp.gnu.org"

// A Tool describes one upstream release tarball.
type Tool struct {
	// Name of the tool: "binutils", "gcc" or "gdb".
	Name string
	// Version of the pinned release.
	Version string
	// Tarball is the release archive's file name.
	Tarball string
	// Checksum is the upstream-published MD5 digest of the tarball,
	// as a hex string.
	Checksum string
	// RemoteDir is the directory on the mirror holding the tarball.
	RemoteDir string
}

// SourceDir returns the directory name the tarball unpacks into.
func (t Tool) SourceDir() string {
	return t.Name + "-" + t.Version
}

func newTool(name, version, checksum string) Tool {
	remoteDir := "/gnu/" + name + "/"
	if name == "gcc" {
		// GCC nests each release in its own subdirectory.
		remoteDir = "/gnu/gcc/gcc-" + version + "/"
	}

	return Tool{
		Name:      name,
		Version:   version,
		Tarball:   fmt.Sprintf("%s-%s.tar.xz", name, version),
		Checksum:  checksum,
		RemoteDir: remoteDir,
	}
}

// Defaults returns the pinned tool releases in build order:
// binutils, then GCC, then GDB.
func Defaults() []Tool {
	return []Tool{
		newTool("binutils", BinutilsVersion, binutilsChecksum),
		newTool("gcc", GCCVersion, gccChecksum),
		newTool("gdb", GDBVersion, gdbChecksum),
	}
}

// A Manifest is the resolved source configuration: the mirror to fetch
// from, the transport scheme and the three tool releases.
type Manifest struct {
	Mirror string
	Scheme string // "https" or "ftp"
	Tools  []Tool
}

// DefaultManifest returns the built-in configuration: the pinned releases,
// fetched from the default mirror over HTTPS.
func DefaultManifest() Manifest {
	return Manifest{Mirror: DefaultMirror, Scheme: "https", Tools: Defaults()}
}

type fileConfig struct {
	Mirror   string       `toml:"mirror"`
	Scheme   string       `toml:"scheme"`
	Binutils toolOverride `toml:"binutils"`
	GCC      toolOverride `toml:"gcc"`
	GDB      toolOverride `toml:"gdb"`
}

type toolOverride struct {
	Version  string `toml:"version"`
	Checksum string `toml:"checksum"`
}

func (o toolOverride) apply(t Tool) Tool {
	if o.Version == "" && o.Checksum == "" {
		return t
	}

	version, checksum := t.Version, t.Checksum
	if o.Version != "" {
		version = o.Version
	}
	if o.Checksum != "" {
		checksum = o.Checksum
	}

	return newTool(t.Name, version, checksum)
}

// Load reads a crossbuild.toml file and applies it over the built-in
// manifest. A missing file is not an error: the defaults are returned
// and ok is false.
func Load(path string) (m Manifest, ok bool, err error) {
	m = DefaultManifest()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return m, false, nil
	} else if err != nil {
		return m, false, fmt.Errorf("source: failed to stat %q: %w", path, err)
	}

	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return m, false, fmt.Errorf("source: %s: failed to parse TOML: %w", path, err)
	}

	if cfg.Mirror != "" {
		m.Mirror = cfg.Mirror
	}
	if cfg.Scheme != "" {
		if cfg.Scheme != "https" && cfg.Scheme != "ftp" {
			return m, false, fmt.Errorf("source: %s: unsupported scheme %q (want https or ftp)", path, cfg.Scheme)
		}
		m.Scheme = cfg.Scheme
	}

	m.Tools[0] = cfg.Binutils.apply(m.Tools[0])
	m.Tools[1] = cfg.GCC.apply(m.Tools[1])
	m.Tools[2] = cfg.GDB.apply(m.Tools[2])

	return m, true, nil
}
