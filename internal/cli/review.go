package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reviewhub/internal/gitctx"
	"reviewhub/internal/output"
	"reviewhub/internal/review"
)

var (
	flagProjectID int64
	flagProvider  string
	flagModel     string
	flagEndpoint  string
	flagTimeoutMS int
	flagBypass    bool
	flagFormat    string
	flagOut       string
)

var reviewCmd = &cobra.Command{
	Use:   "review <path>...",
	Short: "Run a full review (rules + model) over files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := gitctx.ReadFiles(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		overrides := map[string]string{
			"provider": flagProvider,
			"model":    flagModel,
			"endpoint": flagEndpoint,
		}
		if flagTimeoutMS > 0 {
			overrides["timeoutMs"] = fmt.Sprintf("%d", flagTimeoutMS)
		}
		if flagBypass {
			overrides["bypass"] = "true"
		}

		a, err := newApp(overrides, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		defer a.close()

		result, err := a.engine.RunReview(context.Background(), files, review.Metadata{
			ProjectID: flagProjectID,
			Mode:      review.ModeUpload,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		if err := output.WriteResult(result, flagFormat, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if !result.Passed {
			exitCode = ExitFindings
		}
		return nil
	},
}

func writeResultJSON(result review.Result) error {
	return output.WriteResult(result, "json", "")
}

func init() {
	reviewCmd.Flags().Int64Var(&flagProjectID, "project", 0, "Project id the rules belong to")
	reviewCmd.Flags().StringVar(&flagProvider, "provider", "", "Model provider (ollama, openai)")
	reviewCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	reviewCmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "Model endpoint URL")
	reviewCmd.Flags().IntVar(&flagTimeoutMS, "timeout-ms", 0, "Model call timeout in milliseconds")
	reviewCmd.Flags().BoolVar(&flagBypass, "bypass-model", false, "Skip the real model call and return a mock finding")
	reviewCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json)")
	reviewCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}
