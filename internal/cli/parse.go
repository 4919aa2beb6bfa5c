package cli

import (
	"context"
	"fmt"

	"resumeai/internal/common"
	"resumeai/internal/types"

	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "parse [resume-file]",
		Short: "Parse a resume into its structured form",
		Long: `Parse a resume and print its structured form: name, contact details,
summary, skills, experience entries and the remaining sections.

Plain text, markdown, PDF and DOCX resumes are parsed heuristically. A JSON
resume is validated against the resume schema instead.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareOutput(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())

			load := func(fp *common.FileProcessor) (types.Resume, error) {
				return fp.ReadResume(args[0])
			}
			identity := func(_ context.Context, r types.Resume) (types.Resume, error) {
				return r, nil
			}
			logDetails := func(r types.Resume, cfg common.CommandConfig) {
				logger.Info("Parsed resume",
					"file", args[0],
					"source_format", r.SourceFormat,
					"skills", len(r.Skills),
					"experience_entries", len(r.Experience))
			}

			if err := common.RunCommand(cmd.Context(), logger, cmdConfig, load, identity, logDetails); err != nil {
				return fmt.Errorf("failed to parse resume: %w", err)
			}
			return nil
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	return cmd
}
