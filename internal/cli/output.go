package cli

import (
	"resumeai/internal/common"
	"resumeai/internal/optimizer"
	"resumeai/internal/rewriter"
	"resumeai/internal/taxonomy"

	"github.com/spf13/cobra"
)

// addOutputFlags registers --output and --format with format completion
func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// prepareOutput fills the defaults of cmdConfig and validates its format
func prepareOutput(cmd *cobra.Command, cmdConfig *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	// Apply default format if not specified
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	cmdConfig.MaxFileSize = cfg.App.MaxFileSize
	cmdConfig.Out = cmd.OutOrStdout()
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

// newOptimizer builds an optimizer over the configured taxonomy. A non-nil
// seed makes rewrites reproducible.
func newOptimizer(cmd *cobra.Command, seed *uint64) (*optimizer.Optimizer, error) {
	cfg := getConfigFromContext(cmd.Context())
	tax, err := taxonomy.Load(cfg.Engine.TaxonomyFile)
	if err != nil {
		return nil, err
	}
	var opts []optimizer.Option
	if seed != nil {
		opts = append(opts, optimizer.WithPicker(rewriter.NewSeededPicker(*seed)))
	}
	return optimizer.New(tax, opts...), nil
}
