// Package usage tracks model call metrics in a fixed-size in-memory ring,
// keeping only the most recent records.
package usage
