package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// A Runner executes an external command and waits for it to finish.
// Every process the pipeline spawns (compiler probes, configure, make)
// goes through a Runner, so tests can observe and fake the whole build.
type Runner interface {
	// Run executes name with args in dir. A nil or empty env means the
	// inherited environment; otherwise env entries are appended to it.
	// A non-zero exit is reported as a non-nil error.
	Run(ctx context.Context, dir string, env []string, name string, args ...string) error
}

// ExecRunner runs commands on the host, wiring their output to the
// configured writers (the process's stdout/stderr when left nil).
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, dir string, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	return cmd.Run()
}

// A PhaseError reports which tool and which build phase failed.
type PhaseError struct {
	Tool  string // "binutils", "gcc" or "gdb"
	Phase string // "configure", "build" or "install"
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("toolchain: %s %s failed: %v", e.Tool, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
