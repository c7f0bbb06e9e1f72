// Package redact scrubs secrets from submitted file content before it is sent
// to any model provider.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private key blocks, AWS credentials, bearer tokens, and
// provider-specific tokens (Anthropic, OpenAI, GitHub, Slack). Files whose
// paths match configured glob patterns are blanked entirely instead of being
// scanned.
package redact
