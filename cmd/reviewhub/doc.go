// Reviewhub is an internal code review service and CLI.
//
// It checks submitted files against per-project rules and an LLM reviewer,
// persists review sessions, and gates commits on critical findings with
// deterministic exit codes suitable for git hooks.
//
// Usage:
//
//	reviewhub serve                       # run the review API server
//	reviewhub review main.go util.go      # full review (rules + model)
//	reviewhub check staged --project 1    # rule-only gate on staged files
//	reviewhub rules list                  # inspect stored and built-in rules
//	reviewhub hook install --project 1    # install the pre-commit hook
package main
