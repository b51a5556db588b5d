package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/omr-grader-mcp/internal/config"
	"github.com/ironsheep/omr-grader-mcp/internal/logger"
	"github.com/ironsheep/omr-grader-mcp/internal/pipeline"
	"github.com/ironsheep/omr-grader-mcp/internal/sheet"
)

var rootCmd = &cobra.Command{
	Use:   "omr-grader-mcp",
	Short: "Grade photographed bubble answer sheets",
	Long: `omr-grader-mcp reads the marked answers off a photographed bubble (OMR)
answer sheet and grades them against an answer key.

Run without a command it serves MCP over stdin/stdout, so it can be
configured directly in an MCP client.

Environment variables:
  OMR_MCP_CONFIG=<path>     Config file used when --config is not given
  OMR_MCP_LOG_LEVEL=debug   Enable debug logging`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a TOML config file (overrides OMR_MCP_CONFIG)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup applies the logging flags. It runs before every command.
func setup(cmd *cobra.Command, _ []string) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetVerbose(true)
	}
	logger.Debug("omr-grader-mcp %s (built %s, commit %s)", Version, BuildTime, GitCommit)
	return nil
}

// loadConfig resolves the configuration from --config or $OMR_MCP_CONFIG.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newProcessor builds a processor from the resolved configuration. A non-zero
// seed overrides the configured fallback seed.
func newProcessor(cmd *cobra.Command, seed uint64) (*pipeline.Processor, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	var opts []pipeline.Option
	if seed != 0 {
		opts = append(opts, pipeline.WithRandomSource(sheet.NewRandomSource(seed)))
	}
	proc, err := pipeline.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating processor: %w", err)
	}
	return proc, nil
}
