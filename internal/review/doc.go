// Package review contains the core rule evaluation and finding-aggregation
// pipeline.
//
// Rule definitions (built-in defaults plus admin-authored project and global
// rules) are compiled into case-insensitive matchers; patterns that fail to
// compile are dropped with a warning rather than failing the build. The
// compiled set is evaluated per line over the submitted file batch, producing
// deterministic, ordered findings with 1-based line attribution.
//
// Model output from the external reviewer is parsed through an ordered chain
// of tolerant strategies (direct JSON, fenced blocks, balanced bracket scan)
// that always yields a well-formed finding list. Transport failures, malformed
// responses, and persistence errors are absorbed into synthetic findings; the
// only error surfaced to callers is request validation.
package review
