// Package cache provides a TTL-bounded file cache for raw model responses,
// keyed by provider, model, and prompt hash.
package cache
