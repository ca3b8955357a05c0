package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"crossbuild/pkg/platform"
	"crossbuild/pkg/source"
	"crossbuild/pkg/toolchain"
	"crossbuild/pkg/workspace"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a cross-compiler toolchain for a target platform",
	Long: `Build binutils, GCC and GDB for the given target architecture.

Supported architectures: ` + strings.Join(platform.Names(), ", ") + `.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("arch", "a", "", "target architecture")
	buildCmd.MarkFlagRequired("arch")
	buildCmd.Flags().StringP("install", "i", "", "\"yes\" installs into the cross prefix, \"no\" stages under PKG/")
	buildCmd.MarkFlagRequired("install")
	buildCmd.Flags().IntP("cores", "c", 1, "number of parallel build jobs")
	buildCmd.Flags().Bool("enable-cxx", false, "also build the C++ cross-compiler (g++, etc.)")
	buildCmd.Flags().String("config", "crossbuild.toml", "TOML file overriding tool versions, checksums and the mirror")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	arch, err := cmd.Flags().GetString("arch")
	if err != nil {
		return err
	}
	installValue, err := cmd.Flags().GetString("install")
	if err != nil {
		return err
	}
	cores, err := cmd.Flags().GetInt("cores")
	if err != nil {
		return err
	}
	enableCXX, err := cmd.Flags().GetBool("enable-cxx")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	// Reject bad input before anything touches the network or the disk.
	triplet, err := platform.Triplet(arch)
	if err != nil {
		return fmt.Errorf("%w (supported: %s)", err, strings.Join(platform.Names(), ", "))
	}

	var install bool
	switch installValue {
	case "yes":
		install = true
	case "no":
		install = false
	default:
		return fmt.Errorf("--install must be \"yes\" or \"no\", got %q", installValue)
	}

	manifest, loaded, err := source.Load(configPath)
	if err != nil {
		return err
	}
	if loaded {
		fmt.Fprintf(cmd.OutOrStdout(), "using source overrides from %s\n", configPath)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg := toolchain.Config{
		Platform:    arch,
		Triplet:     triplet,
		Install:     install,
		Jobs:        cores,
		EnableCXX:   enableCXX,
		BaseDir:     baseDir,
		CrossPrefix: os.Getenv("CROSS_PREFIX"),
	}

	layout := workspace.New(cfg.BaseDir, cfg.Platform, cfg.CrossPrefix)
	if install {
		color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(),
			"warning: installing wipes %s, removing any toolchain already there\n", layout.Prefix)
	}

	p := &toolchain.Pipeline{Config: cfg, Manifest: manifest, Out: cmd.OutOrStdout()}
	if err := p.Run(cmd.Context()); err != nil {
		// The workspace is kept after a failure so the build logs and
		// half-built trees can be inspected.
		if _, serr := os.Stat(layout.WorkDir); serr == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "work directory left at %s for inspection\n", layout.WorkDir)
		}
		return err
	}

	return nil
}
