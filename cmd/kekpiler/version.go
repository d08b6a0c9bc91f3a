package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"kekpiler/internal/extensions"
	"kekpiler/internal/version"
)

// buildInfo is the machine readable form of `kekpiler version`.
type buildInfo struct {
	Tool       string   `json:"tool"`
	Version    string   `json:"version"`
	Commit     string   `json:"git_commit,omitempty"`
	Built      string   `json:"build_date,omitempty"`
	Go         string   `json:"go"`
	Extensions []string `json:"extensions"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show kekpiler build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch strings.ToLower(format) {
		case "json":
			return writeBuildInfo(out)
		case "pretty":
			global, err := readGlobalOptions(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%s\nextensions: %s\n", version.Describe(global.color), strings.Join(extensions.Names(), ", "))
			return err
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func writeBuildInfo(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(buildInfo{
		Tool:       "kekpiler",
		Version:    version.Version,
		Commit:     version.GitCommit,
		Built:      version.BuildDate,
		Go:         runtime.Version(),
		Extensions: extensions.Names(),
	})
}
