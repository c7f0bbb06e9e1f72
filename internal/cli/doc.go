// Package cli wires together the Cobra command tree for the reviewhub binary.
//
// It defines the root command and all subcommands (serve, review, check,
// rules, cache, hook, version), binds flags, reads configuration, invokes the
// review engine, and returns deterministic exit codes for commit gating.
package cli
