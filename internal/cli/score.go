package cli

import (
	"context"
	"fmt"

	"resumeai/internal/common"
	"resumeai/internal/optimizer"
	"resumeai/internal/types"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "score [resume-file] [job-description-file]",
		Short: "Score a resume against a job description",
		Long: `Score a resume for ATS compatibility with a job description without
changing it. The report breaks the total down into technical skills, keywords,
soft skills and format.`,
		Args: cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareOutput(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())

			opt, err := newOptimizer(cmd, nil)
			if err != nil {
				return err
			}

			load := func(fp *common.FileProcessor) (types.ScoreInput, error) {
				r, err := fp.ReadResume(args[0])
				if err != nil {
					return types.ScoreInput{}, err
				}
				texts, err := fp.ReadJobDescriptions(args[1])
				if err != nil {
					return types.ScoreInput{}, err
				}
				return types.ScoreInput{Resume: r, JobDescription: texts[0]}, nil
			}

			score := func(_ context.Context, input types.ScoreInput) (types.ATSReport, error) {
				profile := opt.Analyze(input.JobDescription)
				if err := optimizer.RequireProfile(profile); err != nil {
					return types.ATSReport{}, err
				}
				return opt.Score(input.Resume, profile), nil
			}

			logDetails := func(input types.ScoreInput, cfg common.CommandConfig) {
				logger.Info("Starting ATS scoring",
					"resume_chars", len(input.Resume.FullText),
					"job_chars", len(input.JobDescription),
					"output_format", cfg.OutputFormat)
			}

			if err := common.RunCommand(cmd.Context(), logger, cmdConfig, load, score, logDetails); err != nil {
				return fmt.Errorf("failed to score resume: %w", err)
			}
			return nil
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	return cmd
}
