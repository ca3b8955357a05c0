package hostdeps_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"crossbuild/pkg/hostdeps"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls   []call
	failFor string // substring of the probe source that should fail to compile
}

func (r *fakeRunner) Run(_ context.Context, dir string, _ []string, name string, args ...string) error {
	r.calls = append(r.calls, call{name: name, args: args})

	if r.failFor == "" {
		return nil
	}

	source, err := os.ReadFile(filepath.Join(dir, "probe.c"))
	if err != nil {
		return err
	}
	if strings.Contains(string(source), r.failFor) {
		return &exitError{}
	}
	return nil
}

type exitError struct{}

func (*exitError) Error() string { return "exit status 1" }

func TestCheck_AllPresent(t *testing.T) {
	runner := &fakeRunner{}
	require.NoError(t, hostdeps.Check(context.Background(), runner))
	require.Len(t, runner.calls, 4)

	for _, c := range runner.calls {
		require.Equal(t, hostdeps.Compiler(), c.name)
		require.Equal(t, "-c", c.args[0])
	}
}

func TestCheck_MissingLibraryIsFatal(t *testing.T) {
	runner := &fakeRunner{failFor: "<mpfr.h>"}

	err := hostdeps.Check(context.Background(), runner)
	require.Error(t, err)
	require.Contains(t, err.Error(), "MPFR")
	require.Contains(t, err.Error(), "<mpfr.h>")

	// GMP probe ran first, MPFR aborted the check; MPC and isl never ran.
	require.Len(t, runner.calls, 2)
}

func TestCompiler_HonorsCCEnv(t *testing.T) {
	t.Setenv("CC", "clang-18")
	require.Equal(t, "clang-18", hostdeps.Compiler())

	t.Setenv("CC", "")
	require.Equal(t, "cc", hostdeps.Compiler())
}
