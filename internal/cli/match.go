package cli

import (
	"context"
	"fmt"

	"github.com/sms03/resume-mcp/internal/ai"
	"github.com/sms03/resume-mcp/internal/analyzer"
	"github.com/sms03/resume-mcp/internal/common"
	"github.com/sms03/resume-mcp/internal/types"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-file] [job-description-file]",
	Short: "Match a resume against a job description",
	Long: `Match a resume against a job description and score the fit from 0 to 100.
The result includes matching and missing skills plus a short explanation of
the score.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if matchConfig.OutputFormat == "" {
			matchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(matchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runMatch,
}

var matchConfig common.CommandConfig

func init() {
	matchCmd.Flags().StringVarP(&matchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	matchCmd.Flags().StringVar(&matchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = matchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	matchAIConfig := cfg.GetMatchConfig()
	aiService, err := ai.NewService(&matchAIConfig, "match", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	a := analyzer.New(nil, aiService.Generator, nil, cfg, logger)

	createInput := func(contents []string) (types.MatchResumeInput, error) {
		if len(contents) != 2 {
			return types.MatchResumeInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.MatchResumeInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input types.MatchResumeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume-to-job match",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	matchOperation := func(ctx context.Context, input types.MatchResumeInput) any {
		return a.MatchResumeToJob(ctx, input.ResumeText, input.JobDescription)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		matchConfig,
		args,
		createInput,
		matchOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to match resume: %w", err)
	}
	logger.Info("Resume match completed")
	return nil
}
