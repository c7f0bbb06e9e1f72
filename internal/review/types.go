package review

// Severity represents the severity level of a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category represents the type of finding.
type Category string

const (
	CategorySecurity        Category = "security"
	CategoryStyle           Category = "style"
	CategoryPerformance     Category = "performance"
	CategoryDocs            Category = "docs"
	CategoryTests           Category = "tests"
	CategoryMaintainability Category = "maintainability"
	CategoryQuality         Category = "quality"
	CategorySystem          Category = "system"
)

// ruleCategories are the categories accepted for admin-authored rules.
var ruleCategories = map[Category]bool{
	CategorySecurity:    true,
	CategoryStyle:       true,
	CategoryPerformance: true,
	CategoryDocs:        true,
	CategoryTests:       true,
}

// ruleSeverities are the severities accepted for admin-authored rules.
var ruleSeverities = map[Severity]bool{
	SeverityLow:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

// Source identifies which subsystem produced a finding.
type Source string

const (
	SourceRuleEngine Source = "ruleEngine"
	SourceModel      Source = "model"
	SourceSystem     Source = "system"
)

// RuleScope controls which projects a rule applies to.
type RuleScope string

const (
	ScopeProject RuleScope = "project"
	ScopeGlobal  RuleScope = "global"
)

// RuleDefinition is a raw rule as authored by an admin or shipped as a
// default. Pattern is a regex source string and may be empty, in which case
// the rule never fires.
type RuleDefinition struct {
	Key            string    `json:"key"`
	Message        string    `json:"message"`
	Pattern        string    `json:"pattern,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
	Category       Category  `json:"category"`
	Severity       Severity  `json:"severity"`
	Scope          RuleScope `json:"scope"`
	ProjectID      int64     `json:"projectId,omitempty"`
}

// Validate reports whether the definition is acceptable for storage.
func (r RuleDefinition) Validate() bool {
	return r.Key != "" && r.Message != "" &&
		ruleSeverities[r.Severity] && ruleCategories[r.Category]
}

// FileInput is one caller-supplied file to review. Content may be empty or
// arbitrarily large.
type FileInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Finding is one reported issue instance. Line numbers are 1-based.
// Findings are append-only once produced.
type Finding struct {
	File           string   `json:"file"`
	LineStart      int      `json:"line_start"`
	LineEnd        int      `json:"line_end"`
	Category       Category `json:"category"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Explanation    string   `json:"explanation"`
	Recommendation string   `json:"recommendation"`
	Source         Source   `json:"source"`
	EffortMinutes  int      `json:"effort_minutes,omitempty"`
}

// UsageMetrics records model call cost data. Informational only.
type UsageMetrics struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	CharsIn   int    `json:"chars_in"`
	CharsOut  int    `json:"chars_out"`
	LatencyMs int64  `json:"latency_ms"`
}

// ReviewMode distinguishes how a session was initiated.
type ReviewMode string

const (
	ModeUpload    ReviewMode = "upload"
	ModePreCommit ReviewMode = "pre-commit"
)

// Metadata carries caller context for a review request.
type Metadata struct {
	ProjectID int64      `json:"projectId,omitempty"`
	UserID    int64      `json:"userId,omitempty"`
	Mode      ReviewMode `json:"mode,omitempty"`
	Summary   string     `json:"summary,omitempty"`
}

// ReviewSession is one persisted analysis request. Immutable after creation
// except for the id assigned by the persistence gateway.
type ReviewSession struct {
	ID       string        `json:"id"`
	Metadata Metadata      `json:"metadata"`
	Findings []Finding     `json:"findings"`
	Usage    *UsageMetrics `json:"usage,omitempty"`
}

// ModelResult is the outcome of one external model review.
type ModelResult struct {
	Findings []Finding    `json:"findings"`
	Usage    UsageMetrics `json:"usage"`
}

// Result is the aggregated outcome of one review.
type Result struct {
	SessionID     string        `json:"sessionId,omitempty"`
	Findings      []Finding     `json:"findings"`
	Passed        bool          `json:"passed"`
	CriticalCount int           `json:"criticalCount"`
	TotalCount    int           `json:"totalCount"`
	Usage         *UsageMetrics `json:"usage,omitempty"`
}
