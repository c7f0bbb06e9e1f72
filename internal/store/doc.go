// Package store is the SQLite-backed durable storage for projects, rules,
// review sessions, findings, usage metrics, and commit checks. It implements
// the rule store and persistence gateway contracts consumed by the review
// engine.
package store
