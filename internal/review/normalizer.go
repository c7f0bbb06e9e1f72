package review

import (
	"encoding/json"
	"regexp"
	"strings"
)

// rawModelFinding is the JSON structure the model is instructed to return.
type rawModelFinding struct {
	File           string   `json:"file"`
	LineStart      int      `json:"line_start"`
	LineEnd        int      `json:"line_end"`
	Category       Category `json:"category"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Explanation    string   `json:"explanation"`
	Recommendation string   `json:"recommendation"`
	EffortMinutes  int      `json:"effort_minutes"`
}

var (
	fencedArrayRe  = regexp.MustCompile("```(?:json)?\\s*(\\[[\\s\\S]*?\\])\\s*```")
	fencedObjectRe = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
)

// parseStrategy attempts one way of extracting findings from raw model text.
type parseStrategy func(text string) ([]rawModelFinding, bool)

// parseStrategies are tried in order; the first success wins.
var parseStrategies = []parseStrategy{
	parseDirect,
	parseFencedArray,
	parseFencedObject,
	parseBareArray,
	parseBareObject,
}

// NormalizeModelResponse parses untrusted model output into findings. It
// never fails: when every strategy is exhausted it returns a single
// low-severity synthetic finding so the caller always receives a well-formed
// list.
func NormalizeModelResponse(text string) []Finding {
	for _, strategy := range parseStrategies {
		if raw, ok := strategy(text); ok {
			findings := make([]Finding, 0, len(raw))
			for _, r := range raw {
				findings = append(findings, r.toFinding())
			}
			return findings
		}
	}
	return []Finding{unparseableResponseFinding()}
}

func parseDirect(text string) ([]rawModelFinding, bool) {
	return decodeArrayOrObject(strings.TrimSpace(text))
}

func parseFencedArray(text string) ([]rawModelFinding, bool) {
	m := fencedArrayRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return decodeArray(m[1])
}

func parseFencedObject(text string) ([]rawModelFinding, bool) {
	m := fencedObjectRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return decodeObject(m[1])
}

func parseBareArray(text string) ([]rawModelFinding, bool) {
	sub, ok := balancedSlice(text, '[', ']')
	if !ok {
		return nil, false
	}
	return decodeArray(sub)
}

func parseBareObject(text string) ([]rawModelFinding, bool) {
	sub, ok := balancedSlice(text, '{', '}')
	if !ok {
		return nil, false
	}
	return decodeObject(sub)
}

func decodeArrayOrObject(text string) ([]rawModelFinding, bool) {
	if raw, ok := decodeArray(text); ok {
		return raw, true
	}
	return decodeObject(text)
}

func decodeArray(text string) ([]rawModelFinding, bool) {
	var raw []rawModelFinding
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, false
	}
	return raw, true
}

func decodeObject(text string) ([]rawModelFinding, bool) {
	var raw rawModelFinding
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, false
	}
	return []rawModelFinding{raw}, true
}

// balancedSlice returns the first balanced open..close substring, honoring
// JSON string literals and escapes.
func balancedSlice(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func (r rawModelFinding) toFinding() Finding {
	f := Finding{
		File:           r.File,
		LineStart:      r.LineStart,
		LineEnd:        r.LineEnd,
		Category:       r.Category,
		Severity:       r.Severity,
		Title:          r.Title,
		Explanation:    r.Explanation,
		Recommendation: r.Recommendation,
		EffortMinutes:  r.EffortMinutes,
		Source:         SourceModel,
	}
	if f.File == "" {
		f.File = "unknown"
	}
	if f.LineStart < 1 {
		f.LineStart = 1
	}
	if f.LineEnd < f.LineStart {
		f.LineEnd = f.LineStart
	}
	return f
}

func unparseableResponseFinding() Finding {
	return Finding{
		File:           "unknown",
		LineStart:      1,
		LineEnd:        1,
		Category:       CategoryMaintainability,
		Severity:       SeverityLow,
		Title:          "Unable to parse model output",
		Explanation:    "The model response was not valid JSON; returning a fallback finding.",
		Recommendation: "Check the server logs for the raw model response.",
		Source:         SourceModel,
		EffortMinutes:  1,
	}
}
