// Package server exposes the review pipeline over a JSON HTTP API: review
// submission, quick checks, commit gating, rule and project administration,
// and recent usage metrics.
package server
