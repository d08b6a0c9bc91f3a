package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kekpiler/internal/buildpipeline"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file.md",
	Short: "Compile one document to HTML",
	Long: `Compile converts one extended Markdown document to an HTML fragment.
The output goes to stdout unless --output is given; diagnostics go to stderr.
Settings and extensions come from the nearest kekpiler.toml, if any.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	addDocumentFlags(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "write HTML to file instead of stdout")
	compileCmd.Flags().Bool("indent", false, "indent the generated HTML")
}

// addDocumentFlags registers the flags shared by commands that compile
// single documents.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	cmd.Flags().StringArray("set", nil, "override a compiler setting (key=value)")
	cmd.Flags().StringSlice("extensions", nil, "extensions to install (default from kekpiler.toml)")
}

type documentOptions struct {
	format     string
	settings   map[string]any
	extensions []string
	baseDir    string
}

// readDocumentOptions merges the nearest manifest found from startDir with
// the document flags of cmd.
func readDocumentOptions(cmd *cobra.Command, startDir string) (documentOptions, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return documentOptions{}, fmt.Errorf("failed to get format flag: %w", err)
	}
	pairs, err := cmd.Flags().GetStringArray("set")
	if err != nil {
		return documentOptions{}, fmt.Errorf("failed to get set flag: %w", err)
	}
	overrides, err := parseSettingFlags(pairs)
	if err != nil {
		return documentOptions{}, err
	}

	manifest, found, err := loadProjectManifest(startDir)
	if err != nil {
		return documentOptions{}, err
	}
	opts := documentOptions{
		format:     format,
		settings:   mergeSettings(manifest.settings(), overrides),
		extensions: manifest.extensionList(),
	}
	if found {
		opts.baseDir = manifest.Root
	}
	if cmd.Flags().Changed("extensions") {
		opts.extensions, err = cmd.Flags().GetStringSlice("extensions")
		if err != nil {
			return documentOptions{}, fmt.Errorf("failed to get extensions flag: %w", err)
		}
	}
	return opts, nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	global, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	doc, err := readDocumentOptions(cmd, filepath.Dir(filePath))
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	indent, err := cmd.Flags().GetBool("indent")
	if err != nil {
		return fmt.Errorf("failed to get indent flag: %w", err)
	}

	result, err := buildpipeline.Compile(cmd.Context(), &buildpipeline.CompileRequest{
		Path:           filePath,
		Settings:       doc.settings,
		Extensions:     doc.extensions,
		Indent:         indent,
		MaxDiagnostics: global.maxDiagnostics,
	})
	if printErr := printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics, doc.format, global, doc.baseDir); printErr != nil {
		return printErr
	}
	if global.timings {
		fmt.Fprint(cmd.ErrOrStderr(), result.Timings.String())
	}
	if err != nil {
		if buildpipeline.IsDocumentError(err) || len(result.Diagnostics) > 0 {
			return errors.New("compilation failed")
		}
		return err
	}

	if outputPath == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.HTML)
		return err
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(result.HTML), 0o600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !global.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outputPath)
	}
	return nil
}
