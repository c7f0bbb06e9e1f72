package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reviewhub/internal/review"
)

var (
	ruleProjectID int64
	ruleKey       string
	ruleMessage   string
	rulePattern   string
	ruleRecommend string
	ruleCategory  string
	ruleSeverity  string
	ruleGlobal    bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage review rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rules plus built-in defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(nil, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		defer a.close()

		stored, err := a.db.ListAllRules(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKEY\tSEVERITY\tCATEGORY\tSCOPE\tPROJECT\tPATTERN")
		for _, r := range stored {
			project := "-"
			if r.ProjectID != 0 {
				project = strconv.FormatInt(r.ProjectID, 10)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Key, r.Severity, r.Category, r.Scope, project, r.Pattern)
		}
		for _, d := range review.DefaultRules() {
			fmt.Fprintf(w, "-\t%s\t%s\t%s\tbuilt-in\t-\t%s\n",
				d.Key, d.Severity, d.Category, d.Pattern)
		}
		return w.Flush()
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		def := review.RuleDefinition{
			Key:            ruleKey,
			Message:        ruleMessage,
			Pattern:        rulePattern,
			Recommendation: ruleRecommend,
			Category:       review.Category(ruleCategory),
			Severity:       review.Severity(ruleSeverity),
			Scope:          review.ScopeProject,
			ProjectID:      ruleProjectID,
		}
		if ruleGlobal {
			def.Scope = review.ScopeGlobal
			def.ProjectID = 0
		}
		if !def.Validate() {
			fmt.Fprintln(os.Stderr, "Error: rule needs a key, a message, a valid severity, and a valid category")
			exitCode = ExitUsageError
			return nil
		}
		if _, err := review.Compile(def); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		a, err := newApp(nil, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		defer a.close()

		id, err := a.db.CreateRule(context.Background(), def)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		fmt.Fprintf(os.Stdout, "Added rule %q (id %d)\n", def.Key, id)
		return nil
	},
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a rule by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid rule id %q\n", args[0])
			exitCode = ExitUsageError
			return nil
		}

		a, err := newApp(nil, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		defer a.close()

		if err := a.db.DeleteRule(context.Background(), id); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		fmt.Fprintf(os.Stdout, "Deleted rule %d\n", id)
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesDeleteCmd)

	rulesAddCmd.Flags().Int64Var(&ruleProjectID, "project", 0, "Project id the rule belongs to")
	rulesAddCmd.Flags().StringVar(&ruleKey, "key", "", "Unique rule key")
	rulesAddCmd.Flags().StringVar(&ruleMessage, "message", "", "Message shown when the rule fires")
	rulesAddCmd.Flags().StringVar(&rulePattern, "pattern", "", "Case-insensitive regex matched per line")
	rulesAddCmd.Flags().StringVar(&ruleRecommend, "recommendation", "", "Suggested fix (defaults to the message)")
	rulesAddCmd.Flags().StringVar(&ruleCategory, "category", "style", "Rule category (security, style, performance, docs, tests)")
	rulesAddCmd.Flags().StringVar(&ruleSeverity, "severity", "low", "Rule severity (low, medium, high, critical)")
	rulesAddCmd.Flags().BoolVar(&ruleGlobal, "global", false, "Apply the rule to every project")
}
