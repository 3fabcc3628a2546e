package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sms03/resume-mcp/internal/ai"
	"github.com/sms03/resume-mcp/internal/analyzer"
	"github.com/sms03/resume-mcp/internal/common"
	"github.com/sms03/resume-mcp/internal/types"

	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [job-description-file] [resume-file...]",
	Short: "Rank candidate resumes by job fit",
	Long: `Rank one or more candidate resumes against a job description. Resumes are
scored in batches and the combined result is sorted by match score, best
candidate first. Each resume is identified by its file name; a batch that
fails still yields one placeholder entry per resume in it.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if rankConfig.OutputFormat == "" {
			rankConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(rankConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRank,
}

var rankConfig common.CommandConfig

func init() {
	rankCmd.Flags().StringVarP(&rankConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rankCmd.Flags().StringVar(&rankConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = rankCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// candidateID derives a stable ranking identifier from a resume file path.
func candidateID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	rankAIConfig := cfg.GetRankConfig()
	aiService, err := ai.NewService(&rankAIConfig, "rank", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	a := analyzer.New(nil, nil, aiService.Generator, cfg, logger)

	createInput := func(contents []string) (types.RankCandidatesInput, error) {
		if len(contents) < 2 {
			return types.RankCandidatesInput{}, fmt.Errorf("expected a job description and at least 1 resume, got %d files", len(contents))
		}
		resumes := make([]types.ResumeRecord, len(contents)-1)
		for i, text := range contents[1:] {
			resumes[i] = types.ResumeRecord{
				ID:   candidateID(args[i+1]),
				Text: text,
			}
		}
		return types.RankCandidatesInput{
			Resumes:        resumes,
			JobDescription: contents[0],
		}, nil
	}

	logDetails := func(input types.RankCandidatesInput, cfg common.CommandConfig) {
		logger.Info("Starting candidate ranking",
			"candidates", len(input.Resumes),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	rankOperation := func(ctx context.Context, input types.RankCandidatesInput) any {
		return a.RankCandidates(ctx, input.Resumes, input.JobDescription)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		rankConfig,
		args,
		createInput,
		rankOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to rank candidates: %w", err)
	}
	logger.Info("Candidate ranking completed")
	return nil
}
