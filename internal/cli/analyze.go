package cli

import (
	"context"
	"fmt"

	"resumeai/internal/common"
	"resumeai/internal/fetch"
	"resumeai/internal/optimizer"
	"resumeai/internal/types"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		cmdConfig common.CommandConfig
		url       string
	)

	cmd := &cobra.Command{
		Use:   "analyze [job-description-file]",
		Short: "Analyze a job description",
		Long: `Analyze a job description and print its profile: job title, domain,
experience level, technical and soft skills, keywords, action verbs and sections.

The job description is read from a file (.txt, .md, .pdf, .docx, .html) or
fetched from a job posting with --url.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if url == "" && len(args) != 1 {
				return fmt.Errorf("requires a job description file or --url")
			}
			if url != "" && len(args) != 0 {
				return fmt.Errorf("a job description file and --url cannot be combined")
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareOutput(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfigFromContext(cmd.Context())
			logger := getLoggerFromContext(cmd.Context())

			opt, err := newOptimizer(cmd, nil)
			if err != nil {
				return err
			}

			load := func(fp *common.FileProcessor) (types.AnalyzeJobInput, error) {
				if url != "" {
					text, err := fetch.New(cfg.Fetch, logger).Fetch(cmd.Context(), url)
					return types.AnalyzeJobInput{JobDescription: text}, err
				}
				texts, err := fp.ReadJobDescriptions(args[0])
				if err != nil {
					return types.AnalyzeJobInput{}, err
				}
				return types.AnalyzeJobInput{JobDescription: texts[0]}, nil
			}

			logDetails := func(input types.AnalyzeJobInput, cfg common.CommandConfig) {
				logger.Info("Starting job description analysis",
					"job_chars", len(input.JobDescription),
					"from_url", url != "",
					"output_format", cfg.OutputFormat)
			}

			analyze := func(ctx context.Context, input types.AnalyzeJobInput) (types.JDProfile, error) {
				profile := opt.Analyze(input.JobDescription)
				return profile, optimizer.RequireProfile(profile)
			}

			if err := common.RunCommand(cmd.Context(), logger, cmdConfig, load, analyze, logDetails); err != nil {
				return fmt.Errorf("failed to analyze job description: %w", err)
			}
			logger.Info("Job description analysis completed successfully")
			return nil
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	cmd.Flags().StringVar(&url, "url", "", "Fetch the job description from a job posting URL")
	return cmd
}
