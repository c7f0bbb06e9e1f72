// Package config loads the process configuration from YAML, environment
// variables, and CLI flag overrides, in that precedence order over defaults.
package config
