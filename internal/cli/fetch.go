package cli

import (
	"fmt"

	"jobsift/internal/common"
	"jobsift/internal/errors"
	"jobsift/internal/scrape"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Score a job posting from a job board link",
	Long: `Score a job posting from a job board link. The page is resolved to
its posting text by the configured resolver command, then extracted and
scored like a plain message.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if fetchConfig.OutputFormat == "" {
			fetchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(fetchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runFetch,
}

var fetchConfig common.CommandConfig

func init() {
	fetchCmd.Flags().StringVarP(&fetchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	fetchCmd.Flags().StringVar(&fetchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = fetchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	url := args[0]
	if !scrape.IsJobURL(url) {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Not a recognized job posting URL: %s", url), nil)
	}

	p, err := buildScoringPipeline(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting URL scoring",
		"url", url,
		"output_format", fetchConfig.OutputFormat)

	err = common.RunPipelineCommand(cmd.Context(), logger, fetchConfig, url, p.ProcessURL)
	if err != nil {
		return fmt.Errorf("failed to score URL: %w", err)
	}
	return nil
}
