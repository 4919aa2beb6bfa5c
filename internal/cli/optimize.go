package cli

import (
	"context"
	"fmt"

	"resumeai/internal/common"
	"resumeai/internal/optimizer"
	"resumeai/internal/types"

	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	var (
		cmdConfig   common.CommandConfig
		seed        uint64
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "optimize [resume-file] [job-description-file]...",
		Short: "Optimize a resume for one or more job descriptions",
		Long: `Optimize a resume for a job description. The summary is regenerated,
skills the candidate's background supports are added, weak bullet points are
rewritten and missing keywords are inserted where they read naturally.

With several job descriptions each one is optimized independently and the
results are printed together. A description too short to analyze fails on its
own without stopping the others.`,
		Args: cobra.MinimumNArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if concurrency < 0 {
				return fmt.Errorf("--concurrency must not be negative")
			}
			return prepareOutput(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfigFromContext(cmd.Context())
			logger := getLoggerFromContext(cmd.Context())

			var seedPtr *uint64
			if cmd.Flags().Changed("seed") {
				seedPtr = &seed
			}
			opt, err := newOptimizer(cmd, seedPtr)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = cfg.Engine.BatchConcurrency
			}

			load := func(fp *common.FileProcessor) (types.OptimizeInput, error) {
				r, err := fp.ReadResume(args[0])
				if err != nil {
					return types.OptimizeInput{}, err
				}
				texts, err := fp.ReadJobDescriptions(args[1:]...)
				if err != nil {
					return types.OptimizeInput{}, err
				}
				return types.OptimizeInput{Resume: r, JobDescriptions: texts}, nil
			}

			run := func(ctx context.Context, input types.OptimizeInput) (any, error) {
				if len(input.JobDescriptions) == 1 {
					profile := opt.Analyze(input.JobDescriptions[0])
					if err := optimizer.RequireProfile(profile); err != nil {
						return nil, err
					}
					return opt.Optimize(input.Resume, profile), nil
				}
				items, err := opt.OptimizeBatch(ctx, input.Resume, input.JobDescriptions, concurrency)
				if err != nil {
					return nil, err
				}
				return types.BatchResult{Items: items}, nil
			}

			logDetails := func(input types.OptimizeInput, cfg common.CommandConfig) {
				logger.Info("Starting resume optimization",
					"resume_chars", len(input.Resume.FullText),
					"job_descriptions", len(input.JobDescriptions),
					"seeded", seedPtr != nil,
					"output_format", cfg.OutputFormat)
			}

			if err := common.RunCommand(cmd.Context(), logger, cmdConfig, load, run, logDetails); err != nil {
				return fmt.Errorf("failed to optimize resume: %w", err)
			}
			logger.Info("Resume optimization completed successfully")
			return nil
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible verb and template choices")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum concurrent optimizations for several job descriptions (default from config)")
	return cmd
}
