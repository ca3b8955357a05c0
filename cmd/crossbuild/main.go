// Package main implements the crossbuild CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crossbuild",
	Short: "GNU cross-compiler toolchain builder",
	Long: `crossbuild downloads, verifies and builds binutils, GCC and GDB to
produce a cross-compilation toolchain for a chosen target platform.

The toolchain is installed under the directory named by the CROSS_PREFIX
environment variable, /usr/local/cross/ by default. With --install no the
files are staged under PKG/ in the working directory instead, so no
elevated privileges are needed.`,
	SilenceUsage: true,
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(versionsCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
