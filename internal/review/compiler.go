package review

import (
	"fmt"
	"regexp"
)

// CompileError describes a rule pattern that failed to compile. It is local
// to the rule: the build drops the rule and continues.
type CompileError struct {
	Key     string
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rule %q: compiling pattern %q: %v", e.Key, e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// CompiledRule is a RuleDefinition bound to its matcher. A nil matcher means
// the rule has no pattern and can never fire. Immutable once built.
type CompiledRule struct {
	RuleDefinition
	matcher *regexp.Regexp
}

// Matches reports whether the rule fires on the given line. Rules without a
// pattern are always inapplicable.
func (c CompiledRule) Matches(line string) bool {
	return c.matcher != nil && c.matcher.MatchString(line)
}

// HasMatcher reports whether a pattern was bound.
func (c CompiledRule) HasMatcher() bool { return c.matcher != nil }

// Compile binds a rule definition to a case-insensitive matcher. An empty
// pattern yields a rule with no matcher, not an error.
func Compile(def RuleDefinition) (CompiledRule, error) {
	if def.Pattern == "" {
		return CompiledRule{RuleDefinition: def}, nil
	}
	re, err := regexp.Compile("(?i)" + def.Pattern)
	if err != nil {
		return CompiledRule{}, &CompileError{Key: def.Key, Pattern: def.Pattern, Err: err}
	}
	return CompiledRule{RuleDefinition: def, matcher: re}, nil
}
