// Package output renders review results for the CLI in text or JSON form.
package output
