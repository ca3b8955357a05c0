package toolchain

import (
	"fmt"
	"path/filepath"
	"strconv"

	"crossbuild/pkg/source"
	"crossbuild/pkg/workspace"
)

// A Phase describes one tool's configure/build/install pass: where it
// runs, what it invokes and with which extra environment. The build
// driver processes phases in order, so adding a tool (e.g. newlib) is a
// data change, not a code change.
type Phase struct {
	Tool          string
	Dir           string
	ConfigureCmd  string
	ConfigureArgs []string
	BuildArgs     []string
	InstallArgs   []string
	Env           []string
}

// Phases returns the build phases in their fixed order: binutils, then
// GCC, then GDB. tools must be the manifest's tool list in the same
// order.
func Phases(cfg Config, layout workspace.Layout, tools []source.Tool) ([]Phase, error) {
	if len(tools) != 3 {
		return nil, fmt.Errorf("toolchain: want 3 tools (binutils, gcc, gdb), got %d", len(tools))
	}

	binutils, gcc, gdb := tools[0], tools[1], tools[2]

	common := []string{
		"--target=" + cfg.Triplet,
		"--prefix=" + layout.Prefix,
		"--program-prefix=" + cfg.Triplet + "-",
	}

	languages := "c"
	if cfg.EnableCXX {
		languages += ",c++"
	}

	jobs := strconv.Itoa(cfg.jobs())

	install := func(targets ...string) []string {
		args := append([]string{}, targets...)
		if !cfg.Install {
			args = append(args, "DESTDIR="+layout.StageDir)
		}
		return args
	}

	phases := []Phase{
		{
			Tool:          binutils.Name,
			Dir:           layout.SourceDir(binutils.SourceDir()),
			ConfigureCmd:  "./configure",
			ConfigureArgs: append(append([]string{}, common...), "--disable-nls", "--disable-werror"),
			BuildArgs:     []string{"-j", jobs, "all"},
			InstallArgs:   install("install"),
			// Newer host compilers reject some binutils warnings.
			Env: []string{"CFLAGS=-Wno-error"},
		},
		{
			Tool: gcc.Name,
			// GCC's build system requires building outside its source tree.
			Dir:          layout.ObjDir,
			ConfigureCmd: filepath.Join(layout.SourceDir(gcc.SourceDir()), "configure"),
			ConfigureArgs: append(append([]string{}, common...),
				"--with-gnu-as",
				"--with-gnu-ld",
				"--disable-nls",
				"--disable-threads",
				"--enable-languages="+languages,
				"--disable-multilib",
				"--disable-libgcj",
				"--without-headers",
				"--disable-shared",
				"--enable-lto",
				"--disable-werror",
			),
			// No target C library exists yet, so only the compiler
			// proper is built and installed on this pass.
			BuildArgs:   []string{"-j", jobs, "all-gcc"},
			InstallArgs: install("install-gcc"),
		},
		{
			Tool:          gdb.Name,
			Dir:           layout.SourceDir(gdb.SourceDir()),
			ConfigureCmd:  "./configure",
			ConfigureArgs: append(append([]string{}, common...), "--enable-werror=no"),
			BuildArgs:     []string{"-j", jobs, "all"},
			InstallArgs:   install("install"),
		},
	}

	return phases, nil
}
