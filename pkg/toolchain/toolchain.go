/*
Package toolchain drives the standard GNU build procedure for binutils,
GCC and GDB to produce a cross-compilation toolchain for a target
platform. The three tools are configured, built and installed in a fixed
order; any failure aborts the whole run, since a partially built cross
toolchain is not a useful artifact.
*/
package toolchain

// Config holds everything one build run needs. It is constructed once
// from parsed input and the environment, then passed to every step;
// nothing in this package mutates it.
type Config struct {
	// Platform is the short target platform name, e.g. "amd64".
	Platform string
	// Triplet is the GNU target triplet for Platform,
	// e.g. "amd64-linux-gnu".
	Triplet string
	// Install selects a real system-wide install into the prefix. When
	// false, files are staged under <base>/PKG instead, so the build
	// does not require elevated privileges.
	Install bool
	// Jobs is the parallelism degree passed to make. Values below 1 are
	// treated as 1.
	Jobs int
	// EnableCXX also builds the C++ cross-compiler (g++ and friends).
	EnableCXX bool
	// BaseDir is where tarballs are kept and the work directory is
	// created. Usually the current working directory.
	BaseDir string
	// CrossPrefix overrides the default install root,
	// /usr/local/cross/. Taken from the CROSS_PREFIX environment
	// variable when set.
	CrossPrefix string
}

func (c Config) jobs() int {
	if c.Jobs < 1 {
		return 1
	}
	return c.Jobs
}
