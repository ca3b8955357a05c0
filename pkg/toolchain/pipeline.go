package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/go-units"
	"github.com/fatih/color"

	"crossbuild/pkg/archive"
	"crossbuild/pkg/hostdeps"
	"crossbuild/pkg/source"
	"crossbuild/pkg/workspace"
)

var arrow = color.New(color.FgBlue, color.Bold).Sprint(">>>")

// A Pipeline runs the whole toolchain build for one target platform:
// host dependency checks, source retrieval and verification, workspace
// setup, the three build phases and the final cleanup. Steps run
// strictly in sequence; the first failure aborts the run. On failure the
// work directory is intentionally left on disk for inspection.
type Pipeline struct {
	Config   Config
	Manifest source.Manifest
	// Runner executes every external process. Defaults to an ExecRunner
	// writing to Out.
	Runner Runner
	// Fetcher retrieves missing tarballs. Defaults to one built from
	// the manifest's mirror and scheme.
	Fetcher *source.Fetcher
	// Out receives progress output. Defaults to os.Stdout.
	Out io.Writer
}

func (p *Pipeline) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p *Pipeline) runner() Runner {
	if p.Runner == nil {
		return &ExecRunner{Stdout: p.out(), Stderr: p.out()}
	}
	return p.Runner
}

func (p *Pipeline) fetcher() *source.Fetcher {
	if p.Fetcher == nil {
		return &source.Fetcher{Mirror: p.Manifest.Mirror, Scheme: p.Manifest.Scheme}
	}
	return p.Fetcher
}

func (p *Pipeline) logf(format string, args ...any) {
	fmt.Fprintf(p.out(), "%s %s\n", arrow, fmt.Sprintf(format, args...))
}

// Run executes the pipeline. It returns a *PhaseError when one of the
// configure/build/install steps fails.
func (p *Pipeline) Run(ctx context.Context) error {
	cfg := p.Config
	runner := p.runner()
	layout := workspace.New(cfg.BaseDir, cfg.Platform, cfg.CrossPrefix)

	if err := hostdeps.Check(ctx, runner); err != nil {
		return err
	}

	hostdeps.Notice(p.out())

	if err := source.EnsureAll(ctx, p.fetcher(), p.Manifest.Tools, cfg.BaseDir, func(tool source.Tool, downloaded bool, size int64) {
		state := "present"
		if downloaded {
			state = "downloaded"
		}
		p.logf("%s %s (%s)", tool.Tarball, state, units.HumanSize(float64(size)))
	}); err != nil {
		return err
	}

	p.logf("Removing previous content")
	if err := layout.Prepare(cfg.Install); err != nil {
		return err
	}

	p.logf("Unpacking tarballs")
	for _, tool := range p.Manifest.Tools {
		if err := archive.Extract(filepath.Join(cfg.BaseDir, tool.Tarball), layout.WorkDir); err != nil {
			return err
		}
	}

	phases, err := Phases(cfg, layout, p.Manifest.Tools)
	if err != nil {
		return err
	}

	// Freshly installed tools (the cross assembler and linker in
	// particular) must be findable by the later phases.
	path := fmt.Sprintf("PATH=%s:%s:%s",
		os.Getenv("PATH"),
		filepath.Join(layout.StageDir, layout.Prefix, "bin"),
		filepath.Join(layout.Prefix, "bin"))

	for _, phase := range phases {
		p.logf("Building %s", phase.Tool)
		if err := p.runPhase(ctx, runner, phase, path); err != nil {
			return err
		}
	}

	p.logf("Cleaning up")
	if err := layout.Remove(); err != nil {
		return err
	}

	state := "built"
	if cfg.Install {
		state = "installed"
	}
	p.logf("Cross-compiler for %s is now %s.", cfg.Platform, state)

	return nil
}

func (p *Pipeline) runPhase(ctx context.Context, runner Runner, phase Phase, path string) error {
	env := append([]string{path}, phase.Env...)

	if err := runner.Run(ctx, phase.Dir, env, phase.ConfigureCmd, phase.ConfigureArgs...); err != nil {
		return &PhaseError{Tool: phase.Tool, Phase: "configure", Err: err}
	}
	if err := runner.Run(ctx, phase.Dir, env, "make", phase.BuildArgs...); err != nil {
		return &PhaseError{Tool: phase.Tool, Phase: "build", Err: err}
	}
	if err := runner.Run(ctx, phase.Dir, env, "make", phase.InstallArgs...); err != nil {
		return &PhaseError{Tool: phase.Tool, Phase: "install", Err: err}
	}

	return nil
}
