// Package gitctx gathers staged file content and commit metadata from the
// local git repository for pre-commit checks.
package gitctx
