package cli

import (
	"fmt"

	"jobsift/internal/ai"
	"jobsift/internal/common"
	"jobsift/internal/config"
	"jobsift/internal/errors"
	"jobsift/internal/joblog"
	"jobsift/internal/ocr"
	"jobsift/internal/pipeline"
	"jobsift/internal/scrape"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [message-file]",
	Short: "Score a job posting from a free-text message",
	Long: `Score a job posting from a free-text message using AI extraction.
The command takes one argument: the path to a file containing the raw
message. When the message contains a job board link, the posting is
fetched and scored instead of the message text itself.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// buildScoringPipeline assembles the full pipeline used by the score, scan
// and fetch commands: AI extractor, OCR engine, link resolver and job log.
func buildScoringPipeline(cfg *config.Config, logger *errors.Logger) (*pipeline.Pipeline, error) {
	extractConfig := cfg.GetExtractConfig()
	if extractConfig.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"No API key configured for the AI provider", nil)
	}

	aiService, err := ai.NewService(&extractConfig, "extract", logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI service: %w", err)
	}

	jobLog, err := joblog.New(cfg.JobLog, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open job log: %w", err)
	}

	return pipeline.New(
		aiService,
		ocr.NewEngine(cfg.OCR, logger),
		scrape.NewResolver(cfg.Resolver, logger),
		jobLog,
		logger,
	), nil
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	message, err := fileProcessor.ValidateAndReadFile(args[0])
	if err != nil {
		return err
	}

	p, err := buildScoringPipeline(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting message scoring",
		"message_chars", len(message),
		"output_format", scoreConfig.OutputFormat)

	err = common.RunPipelineCommand(cmd.Context(), logger, scoreConfig, message, p.ProcessMessage)
	if err != nil {
		return fmt.Errorf("failed to score message: %w", err)
	}
	return nil
}
