package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reviewhub/internal/gitctx"
	"reviewhub/internal/review"
)

var (
	checkProjectID int64
	checkJSON      bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run rule-engine-only checks (no model call)",
}

var checkStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Check staged files against project rules, gating on critical findings",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := gitctx.StagedFiles()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if len(files) == 0 {
			fmt.Fprintln(os.Stdout, "No staged files to check.")
			return nil
		}

		a, err := newApp(nil, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		defer a.close()

		gc := gitctx.Context()
		result, err := a.engine.PreCommitCheck(context.Background(), review.PreCommitRequest{
			ProjectID:   checkProjectID,
			Files:       files,
			BranchName:  gc.Branch,
			AuthorEmail: gc.AuthorEmail,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		printFindings(result.Findings, checkJSON)
		fmt.Fprintln(os.Stdout, result.Message)
		if !result.Passed {
			exitCode = ExitFindings
		}
		return nil
	},
}

var checkFilesCmd = &cobra.Command{
	Use:   "files <path>...",
	Short: "Quick-check explicit files against project rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := gitctx.ReadFiles(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		a, err := newApp(nil, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		defer a.close()

		result, err := a.engine.QuickCheck(context.Background(), files, checkProjectID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		printFindings(result.Violations, checkJSON)
		fmt.Fprintln(os.Stdout, result.Message)
		if !result.Passed {
			exitCode = ExitFindings
		}
		return nil
	},
}

func printFindings(findings []review.Finding, asJSON bool) {
	if asJSON {
		agg := review.Aggregate(findings, nil)
		if err := writeResultJSON(agg); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		}
		return
	}
	for _, f := range review.SortBySeverity(findings) {
		fmt.Fprintf(os.Stdout, "[%s] %s:%d  %s — %s\n",
			f.Severity, f.File, f.LineStart, f.Title, f.Explanation)
	}
}

func init() {
	checkCmd.AddCommand(checkStagedCmd)
	checkCmd.AddCommand(checkFilesCmd)
	checkCmd.PersistentFlags().Int64Var(&checkProjectID, "project", 0, "Project id the rules belong to")
	checkCmd.PersistentFlags().BoolVar(&checkJSON, "json", false, "Emit findings as JSON")
}
