package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"crossbuild/pkg/workspace"
)

func TestNew(t *testing.T) {
	l := workspace.New("/build", "amd64", "")

	require.Equal(t, "/build/amd64", l.WorkDir)
	require.Equal(t, "/build/amd64/gcc-obj", l.ObjDir)
	require.Equal(t, "/usr/local/cross/amd64", l.Prefix)
	require.Equal(t, "/build/PKG", l.StageDir)
	require.Equal(t, "/build/amd64/gcc-14.1.0", l.SourceDir("gcc-14.1.0"))
}

func TestNew_CrossPrefixOverride(t *testing.T) {
	l := workspace.New("/build", "armhf", "/opt/cross")
	require.Equal(t, "/opt/cross/armhf", l.Prefix)
}

func TestNew_DistinctPlatformsDoNotCollide(t *testing.T) {
	a := workspace.New("/build", "amd64", "")
	b := workspace.New("/build", "aarch64", "")

	require.NotEqual(t, a.WorkDir, b.WorkDir)
	require.NotEqual(t, a.ObjDir, b.ObjDir)
	require.NotEqual(t, a.Prefix, b.Prefix)
}

func TestPrepare_CleanSlate(t *testing.T) {
	base := t.TempDir()
	l := workspace.New(base, "amd64", filepath.Join(base, "cross"))

	require.NoError(t, l.Prepare(false))
	require.DirExists(t, l.WorkDir)
	require.DirExists(t, l.ObjDir)

	// Leftovers from an aborted run must disappear on the next Prepare.
	stale := filepath.Join(l.WorkDir, "stale.o")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	require.NoError(t, l.Prepare(false))
	require.NoFileExists(t, stale)
	require.DirExists(t, l.ObjDir)

	entries, err := os.ReadDir(l.WorkDir)
	require.NoError(t, err)
	require.Len(t, entries, 1) // only gcc-obj
	require.Equal(t, "gcc-obj", entries[0].Name())
}

func TestPrepare_InstallWipesPrefix(t *testing.T) {
	base := t.TempDir()
	l := workspace.New(base, "amd64", filepath.Join(base, "cross"))

	require.NoError(t, os.MkdirAll(l.Prefix, 0o755))
	old := filepath.Join(l.Prefix, "bin")
	require.NoError(t, os.MkdirAll(old, 0o755))

	require.NoError(t, l.Prepare(true))
	require.DirExists(t, l.Prefix)
	require.NoDirExists(t, old)
}

func TestPrepare_NoInstallLeavesPrefixAlone(t *testing.T) {
	base := t.TempDir()
	l := workspace.New(base, "amd64", filepath.Join(base, "cross"))

	old := filepath.Join(l.Prefix, "bin")
	require.NoError(t, os.MkdirAll(old, 0o755))

	require.NoError(t, l.Prepare(false))
	require.DirExists(t, old)
}

func TestRemove(t *testing.T) {
	base := t.TempDir()
	l := workspace.New(base, "amd64", filepath.Join(base, "cross"))

	require.NoError(t, l.Prepare(false))
	require.NoError(t, l.Remove())
	require.NoDirExists(t, l.WorkDir)

	// Removing an already-removed workspace is fine.
	require.NoError(t, l.Remove())
}
