package cli

import (
	"context"

	"resumeai/internal/config"
	"resumeai/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// NewRootCommand builds the resumeai command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "resumeai",
		Short: "A CLI tool for optimizing resumes against job descriptions",
		Long: `ResumeAI analyzes job descriptions and rewrites resumes to match them.
It strengthens weak bullet points, inserts missing keywords where they fit and
reports an ATS compatibility score before and after optimization.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newOptimizeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the command line with args taken from os.Args.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	return ExecuteArgs(ctx, cfg, logger, nil)
}

// ExecuteArgs runs the command line with explicit args; nil means os.Args.
func ExecuteArgs(ctx context.Context, cfg *config.Config, logger *errors.Logger, args []string) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)

	rootCmd := NewRootCommand()
	if args != nil {
		rootCmd.SetArgs(args)
	}
	return rootCmd.ExecuteContext(ctx)
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}
