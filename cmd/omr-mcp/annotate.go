package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <image>",
	Short: "Draw detected bubbles and answers on a sheet",
	Long: `Write a copy of the sheet with every detected bubble outlined in grey
and each question's selected bubble outlined in its option colour and
labelled question:option. Useful for tuning the radius range and row
tolerance to a new sheet layout.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringP("output", "o", "", "Output PNG path")
	_ = annotateCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	proc, err := newProcessor(cmd, 0)
	if err != nil {
		return err
	}
	res, a, err := proc.AnnotateFile(args[0])
	if err != nil {
		return err
	}

	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		return fmt.Errorf("decoding annotated image: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	cmd.Printf("Wrote %s (%dx%d, %d circles in %d rows)\n", output, res.Width, res.Height, len(a.Circles), len(a.Rows))
	return nil
}
