// Package providers implements the LLM provider boundary.
//
// Each provider speaks its endpoint's chat API over plain HTTP with a
// configurable endpoint and timeout, returning the raw text content.
// Transient rate-limit errors are retried with exponential backoff;
// authentication errors are not.
package providers
