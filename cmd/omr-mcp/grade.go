package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/omr-grader-mcp/internal/pipeline"
	"github.com/ironsheep/omr-grader-mcp/internal/scoring"
	"github.com/ironsheep/omr-grader-mcp/internal/sheet"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <image>",
	Short: "Read and grade one answer sheet",
	Long: `Read the marked answers from a sheet image and grade them.

The answer key is given inline with --key or in a file with --key-file,
either compact ("ABCD-A...", '-' for a blank entry) or comma/whitespace
separated. Without a key the A,B,C,D demo key is used.

Examples:
  omr-grader-mcp grade sheet.jpg --key ABCDABCD
  omr-grader-mcp grade sheet.jpg --key-file key.txt --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

func init() {
	gradeCmd.Flags().StringP("key", "k", "", "Answer key")
	gradeCmd.Flags().String("key-file", "", "File containing the answer key")
	gradeCmd.Flags().Uint64("seed", 0, "Seed for the fallback generator (0 = use config)")
	gradeCmd.Flags().Bool("json", false, "Print the result as JSON")
	rootCmd.AddCommand(gradeCmd)
}

func runGrade(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetUint64("seed")
	proc, err := newProcessor(cmd, seed)
	if err != nil {
		return err
	}

	key, err := resolveKey(cmd, proc.Config().TotalQuestions)
	if err != nil {
		return err
	}

	graded, err := proc.Grade(args[0], key)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(graded)
	}
	printGraded(cmd, args[0], graded)
	return nil
}

// resolveKey reads the key from --key or --key-file, defaulting to the demo key.
func resolveKey(cmd *cobra.Command, total int) (sheet.AnswerSheet, error) {
	inline, _ := cmd.Flags().GetString("key")
	file, _ := cmd.Flags().GetString("key-file")

	switch {
	case inline != "" && file != "":
		return nil, errors.New("use either --key or --key-file, not both")
	case inline != "":
		return scoring.ParseKey(inline)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}
		return scoring.ParseKey(string(data))
	default:
		return scoring.DemoKey(total), nil
	}
}

func printGraded(cmd *cobra.Command, path string, g *pipeline.Graded) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sheet:       %s\n", path)
	fmt.Fprintf(out, "Run:         %s\n", g.RunID)
	if g.SheetID != "" {
		fmt.Fprintf(out, "Sheet ID:    %s\n", g.SheetID)
	}
	fmt.Fprintf(out, "Provenance:  %s (%d circles, %d rows)\n", g.Provenance, g.CirclesDetected, g.RowsDetected)
	if g.FallbackUsed {
		fmt.Fprintln(out, "WARNING:     no bubbles were detected; the answers below are guessed")
	}
	fmt.Fprintf(out, "Answers:     %s\n", g.Answers)
	fmt.Fprintf(out, "Score:       %d / %d (correct %d, incorrect %d, unattempted %d)\n",
		g.Score.TotalScore, g.Score.MaxScore, g.Score.Correct, g.Score.Incorrect, g.Score.Unattempted)
}
