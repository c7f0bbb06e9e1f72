// Package logging constructs the process-wide zap logger.
package logging
