/*
Package hostdeps verifies that the native libraries GCC links against
(GMP, MPFR, MPC and isl) are present on the host, by compiling a tiny
probe program against each library's header.
*/
package hostdeps

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// A Runner executes an external command, here the host C compiler.
// Satisfied by the toolchain package's runners.
type Runner interface {
	Run(ctx context.Context, dir string, env []string, name string, args ...string) error
}

const gmpProbe = `
#define GCC_GMP_VERSION_NUM(a, b, c) \
        (((a) << 16L) | ((b) << 8) | (c))

#define GCC_GMP_VERSION \
        GCC_GMP_VERSION_NUM(__GNU_MP_VERSION, __GNU_MP_VERSION_MINOR, __GNU_MP_VERSION_PATCHLEVEL)

#if GCC_GMP_VERSION < GCC_GMP_VERSION_NUM(4, 3, 2)
        choke me
#endif
`

const mpfrProbe = `
#if MPFR_VERSION < MPFR_VERSION_NUM(2, 4, 2)
        choke me
#endif
`

const mpcProbe = `
#if MPC_VERSION < MPC_VERSION_NUM(0, 8, 1)
        choke me
#endif
`

const islProbe = `
isl_ctx_get_max_operations (isl_ctx_alloc ());
`

type probe struct {
	library string
	header  string
	body    string
}

var probes = []probe{
	{library: "GMP", header: "<gmp.h>", body: gmpProbe},
	{library: "MPFR", header: "<mpfr.h>", body: mpfrProbe},
	{library: "MPC", header: "<mpc.h>", body: mpcProbe},
	{library: "isl", header: "<isl/ctx.h>", body: islProbe},
}

// Compiler returns the host C compiler used for the probes: the CC
// environment variable when set, "cc" otherwise.
func Compiler() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return "cc"
}

// Check probes every required native library in a fixed order. The first
// missing library aborts with an error naming its header; nothing is
// retried. Probe compilations run through the given runner.
func Check(ctx context.Context, runner Runner) error {
	dir, err := os.MkdirTemp("", "crossbuild-probe")
	if err != nil {
		return fmt.Errorf("hostdeps: failed to create probe directory: %w", err)
	}
	defer os.RemoveAll(dir)

	cc := Compiler()

	for _, p := range probes {
		source := filepath.Join(dir, "probe.c")
		object := filepath.Join(dir, "probe.o")

		code := fmt.Sprintf("#include %s\n\nint main(void)\n{\n%s\n\treturn 0;\n}\n", p.header, p.body)
		if err := os.WriteFile(source, []byte(code), 0o644); err != nil {
			return fmt.Errorf("hostdeps: failed to write probe for %s: %w", p.library, err)
		}

		if err := runner.Run(ctx, dir, nil, cc, "-c", "-o", object, source); err != nil {
			return fmt.Errorf("hostdeps: %s of %s not found: %w", p.header, p.library, err)
		}

		os.Remove(object)
	}

	return nil
}

// Notice writes the list of host tools and libraries a toolchain build
// depends on. It is informational only; Check verifies the headers.
func Notice(w io.Writer) {
	const message = `IMPORTANT NOTICE:

For a successful compilation and use of the cross-compiler
toolchain you need at least the following dependencies.

Please make sure that the dependencies are present in your
system. Otherwise the compilation process might fail after
a few seconds or minutes.

 - SED, AWK, Flex, Bison, gzip, bzip2, Bourne Shell
 - gettext, zlib, Texinfo, libelf, libgomp
 - GNU Make, Coreutils, Sharutils, tar
 - GNU Multiple Precision Library (GMP)
 - MPFR
 - MPC
 - integer point manipulation library (isl)
 - native C and C++ compiler, assembler and linker
 - native C and C++ standard library with headers
`

	fmt.Fprint(w, message)
}
