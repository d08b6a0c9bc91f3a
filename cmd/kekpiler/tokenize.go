package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"kekpiler/internal/buildpipeline"
	"kekpiler/internal/diagfmt"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.md",
	Short: "Dump the token stream and tree of a document",
	Long:  `Tokenize compiles a document with debug dumps enabled and prints the raw token stream and the grouped token tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	addDocumentFlags(tokenizeCmd)
	tokenizeCmd.Flags().String("dump-format", "pretty", "dump format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	global, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	doc, err := readDocumentOptions(cmd, filepath.Dir(filePath))
	if err != nil {
		return err
	}
	dumpFormat, err := cmd.Flags().GetString("dump-format")
	if err != nil {
		return fmt.Errorf("failed to get dump-format flag: %w", err)
	}
	if dumpFormat != "pretty" && dumpFormat != "json" {
		return fmt.Errorf("unknown dump format: %s", dumpFormat)
	}

	result, err := buildpipeline.Compile(cmd.Context(), &buildpipeline.CompileRequest{
		Path:           filePath,
		Settings:       doc.settings,
		Extensions:     doc.extensions,
		MaxDiagnostics: global.maxDiagnostics,
		DebugDump:      true,
	})
	// Выводим диагностику в stderr, если есть
	if printErr := printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics, doc.format, global, doc.baseDir); printErr != nil {
		return printErr
	}
	if err != nil && !buildpipeline.IsDocumentError(err) {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// дамп печатается и для упавшего документа, пока дерево успело собраться
	if result.Dump.Tokens != "" {
		out := cmd.OutOrStdout()
		var dumpErr error
		if dumpFormat == "json" {
			dumpErr = diagfmt.FormatDumpJSON(out, filePath, result.Dump.Tokens, result.Dump.Tree)
		} else {
			dumpErr = diagfmt.FormatDumpPretty(out, filePath, result.Dump.Tokens, result.Dump.Tree)
		}
		if dumpErr != nil {
			return dumpErr
		}
	}
	if err != nil {
		return errors.New("compilation failed")
	}
	return nil
}
