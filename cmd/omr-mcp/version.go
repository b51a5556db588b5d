package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/omr-grader-mcp/internal/ocr"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("omr-grader-mcp %s\n", Version)
		cmd.Printf("  Build time: %s\n", BuildTime)
		cmd.Printf("  Git commit: %s\n", GitCommit)
		cmd.Printf("  Tesseract:  %s\n", ocr.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
