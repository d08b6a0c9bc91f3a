package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kekpiler/internal/buildcache"
	"kekpiler/internal/buildpipeline"
	"kekpiler/internal/version"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [dir]",
	Short: "Compile every document of a directory",
	Long: `Build compiles every .md file under the source directory into an .html file
in the output directory, mirroring the directory layout. Without [dir] the
source and output directories come from kekpiler.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: buildExecution,
}

func init() {
	addDocumentFlags(buildCmd)
	buildCmd.Flags().StringP("output", "o", "", "output directory (default <dir>/out)")
	buildCmd.Flags().Int("jobs", 0, "max parallel documents (0=auto)")
	buildCmd.Flags().Bool("indent", false, "indent the generated HTML")
	buildCmd.Flags().Bool("no-cache", false, "disable the build cache")
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
}

type buildPlan struct {
	sourceDir string
	outputDir string
	baseDir   string
	jobs      int
	indent    bool
	cache     bool
}

func planBuild(cmd *cobra.Command, args []string, manifest *projectManifest) (buildPlan, error) {
	var plan buildPlan
	switch {
	case len(args) > 0:
		plan.sourceDir = args[0]
		plan.outputDir = filepath.Join(args[0], "out")
		plan.cache = true
		if manifest != nil {
			plan.baseDir = manifest.Root
		}
	case manifest != nil:
		plan.sourceDir = manifest.sourceDir()
		plan.outputDir = manifest.outputDir()
		plan.baseDir = manifest.Root
		plan.jobs = manifest.Config.Build.Jobs
		plan.indent = manifest.Config.Build.Indent
		plan.cache = manifest.cacheEnabled()
	default:
		return plan, errors.New(noManifestMessage)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		plan.outputDir, _ = flags.GetString("output")
	}
	if flags.Changed("jobs") {
		plan.jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("indent") {
		plan.indent, _ = flags.GetBool("indent")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		plan.cache = false
	}
	info, err := os.Stat(plan.sourceDir)
	if err != nil {
		return plan, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return plan, fmt.Errorf("%q is not a directory", plan.sourceDir)
	}
	return plan, nil
}

func buildExecution(cmd *cobra.Command, args []string) error {
	global, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiMode, err := parseToggle("ui", uiValue)
	if err != nil {
		return err
	}

	startDir := "."
	if len(args) > 0 {
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
	doc, err := readDocumentOptions(cmd, plan.sourceDir)
	if err != nil {
		return err
	}

	req := buildpipeline.BuildRequest{
		SourceDir:      plan.sourceDir,
		OutputDir:      plan.outputDir,
		Settings:       doc.settings,
		Extensions:     doc.extensions,
		Indent:         plan.indent,
		Jobs:           plan.jobs,
		MaxDiagnostics: global.maxDiagnostics,
		Version:        version.Version,
	}
	if plan.cache {
		cache, cacheErr := buildcache.OpenDefault("kekpiler")
		if cacheErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: build cache disabled: %v\n", cacheErr)
		} else {
			req.Cache = cache
		}
	}

	files, err := buildpipeline.ListDocuments(plan.sourceDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if !global.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "no documents under %s\n", plan.sourceDir)
		}
		return nil
	}
	req.Files = files

	var buildRes buildpipeline.BuildResult
	if uiMode.enabled(func() bool { return interactive(os.Stdout) }) && !global.quiet {
		buildRes, err = runBuildWithUI(cmd.Context(), "kekpiler build", files, &req)
	} else {
		buildRes, err = buildpipeline.Build(cmd.Context(), &req)
	}

	if printErr := printDiagnostics(cmd.ErrOrStderr(), buildRes.Diagnostics(), doc.format, global, plan.baseDir); printErr != nil {
		return printErr
	}
	if global.timings {
		printStageTimings(cmd.ErrOrStderr(), buildRes.Timings, buildRes.Report)
	}
	if err != nil {
		return err
	}

	if !global.quiet {
		cached := 0
		for _, f := range buildRes.Files {
			if f.Cached {
				cached++
			}
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "built %d documents (%d cached) into %s\n",
			len(buildRes.Files), cached, formatPathForOutput(plan.baseDir, plan.outputDir))
	}
	return err
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
