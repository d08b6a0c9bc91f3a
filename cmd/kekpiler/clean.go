package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kekpiler/internal/buildcache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove build output and the build cache",
	Long:  "Remove the output directory of a build and drop every cached document.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache-only", false, "keep the output directory")
}

func runClean(cmd *cobra.Command, args []string) error {
	cacheOnly, err := cmd.Flags().GetBool("cache-only")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	cache, err := buildcache.OpenDefault("kekpiler")
	if err != nil {
		return fmt.Errorf("failed to open build cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop build cache: %w", err)
	}
	_, _ = fmt.Fprintf(out, "dropped cache %s\n", cache.Dir())
	if cacheOnly {
		return nil
	}

	startDir := "."
	if len(args) > 0 && args[0] != "" {
		startDir = args[0]
	}
	manifest, _, err := loadProjectManifest(startDir)
	if err != nil {
		return err
	}
	plan, err := planBuild(cmd, args, manifest)
	if err != nil {
		return err
	}

	info, err := os.Stat(plan.outputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_, _ = fmt.Fprintf(out, "output directory not found\n")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", plan.outputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", plan.outputDir)
	}
	if err := os.RemoveAll(plan.outputDir); err != nil {
		return fmt.Errorf("failed to remove %q: %w", plan.outputDir, err)
	}
	_, _ = fmt.Fprintf(out, "removed %s\n", formatPathForOutput(plan.baseDir, plan.outputDir))
	return nil
}
