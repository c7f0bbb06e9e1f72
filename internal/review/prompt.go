package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = `You are an AI code reviewer. You MUST respond with ONLY a valid JSON array, no markdown, no explanations, no extra text.

The JSON array should contain code review findings. Each finding object must have these exact fields:
{
  "file": "string - filename",
  "line_start": number,
  "line_end": number,
  "category": "string - one of: security, performance, maintainability, quality, style",
  "severity": "string - one of: critical, high, medium, low",
  "title": "string - short summary",
  "explanation": "string - detailed explanation",
  "recommendation": "string - how to fix",
  "effort_minutes": number
}

If the code is perfect, return an empty array: []

CRITICAL: Return ONLY valid JSON. No markdown code blocks, no "Here's the analysis:", just the JSON array.`

// SystemPrompt returns the system instruction sent with every model review.
func SystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt renders the file batch as one fenced block per file,
// followed by the request metadata.
func BuildUserPrompt(files []FileInput, meta Metadata) string {
	var b strings.Builder

	b.WriteString("Review the following code and return ONLY a JSON array of findings:\n\n")
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "File: %s\n```\n%s\n```", f.Path, f.Content)
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		metaJSON = []byte("{}")
	}
	fmt.Fprintf(&b, "\n\nMetadata: %s", metaJSON)

	return b.String()
}
