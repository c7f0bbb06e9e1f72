package review

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"reviewhub/internal/cache"
	"reviewhub/internal/providers"
	"reviewhub/internal/redact"
)

// ModelOptions configure the external model boundary.
type ModelOptions struct {
	Provider string
	Model    string
	Endpoint string
	Timeout  time.Duration
	Bypass   bool

	RedactSecrets bool
	RedactPaths   []string
}

// ModelReviewer sends file batches to the external LLM and normalizes its
// output. Every failure mode is absorbed into a synthetic finding: callers
// always receive a well-formed ModelResult and never an error.
type ModelReviewer struct {
	opts   ModelOptions
	cache  *cache.Cache
	logger *zap.Logger

	// newProvider is swappable for tests.
	newProvider func() (providers.Reviewer, error)
}

// NewModelReviewer creates the adapter. cache may be nil to disable response
// caching.
func NewModelReviewer(opts ModelOptions, c *cache.Cache, logger *zap.Logger) *ModelReviewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &ModelReviewer{opts: opts, cache: c, logger: logger}
	m.newProvider = func() (providers.Reviewer, error) {
		return providers.New(opts.Provider, providers.Options{
			Model:    opts.Model,
			Endpoint: opts.Endpoint,
			Timeout:  opts.Timeout,
		})
	}
	return m
}

// Review runs the model over the file batch. With Bypass set it returns one
// deterministic mock finding and never touches the network.
func (m *ModelReviewer) Review(ctx context.Context, files []FileInput, meta Metadata) ModelResult {
	if m.opts.Bypass {
		return m.mockResult(files)
	}

	prepared := m.redactFiles(files)
	userPrompt := BuildUserPrompt(prepared, meta)
	charsIn := len(SystemPrompt()) + len(userPrompt)

	if raw, ok := m.cachedResponse(userPrompt); ok {
		return ModelResult{
			Findings: NormalizeModelResponse(raw),
			Usage: UsageMetrics{
				Provider: m.opts.Provider,
				Model:    m.opts.Model,
				CharsIn:  charsIn,
				CharsOut: len(raw),
			},
		}
	}

	provider, err := m.newProvider()
	if err != nil {
		m.logger.Error("creating model provider failed", zap.Error(err))
		return m.failureResult(files, err)
	}

	if m.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := provider.Review(ctx, providers.ReviewRequest{
		SystemPrompt: SystemPrompt(),
		UserPrompt:   userPrompt,
	})
	if err != nil {
		m.logger.Error("model call failed",
			zap.String("provider", m.opts.Provider), zap.Error(err))
		return m.failureResult(files, err)
	}
	latency := time.Since(start).Milliseconds()

	m.storeResponse(userPrompt, resp.Content)

	return ModelResult{
		Findings: NormalizeModelResponse(resp.Content),
		Usage: UsageMetrics{
			Provider:  m.opts.Provider,
			Model:     m.opts.Model,
			CharsIn:   charsIn,
			CharsOut:  len(resp.Content),
			LatencyMs: latency,
		},
	}
}

func (m *ModelReviewer) redactFiles(files []FileInput) []FileInput {
	if !m.opts.RedactSecrets {
		return files
	}
	out := make([]FileInput, len(files))
	for i, f := range files {
		out[i] = FileInput{
			Path:    f.Path,
			Content: redact.Content(f.Content, f.Path, m.opts.RedactPaths),
		}
	}
	return out
}

func (m *ModelReviewer) cachedResponse(userPrompt string) (string, bool) {
	if m.cache == nil {
		return "", false
	}
	return m.cache.Get(cache.BuildReviewKey(m.opts.Provider, m.opts.Model, userPrompt))
}

func (m *ModelReviewer) storeResponse(userPrompt, raw string) {
	if m.cache == nil {
		return
	}
	key := cache.BuildReviewKey(m.opts.Provider, m.opts.Model, userPrompt)
	if err := m.cache.Put(key, raw); err != nil {
		m.logger.Warn("caching model response failed", zap.Error(err))
	}
}

func (m *ModelReviewer) mockResult(files []FileInput) ModelResult {
	return ModelResult{
		Findings: []Finding{{
			File:           firstPath(files),
			LineStart:      1,
			LineEnd:        1,
			Category:       CategoryQuality,
			Severity:       SeverityMedium,
			Title:          "Mock model finding",
			Explanation:    "Model bypass is enabled; no real review was performed.",
			Recommendation: "Disable the model bypass switch to use the real reviewer.",
			Source:         SourceModel,
			EffortMinutes:  5,
		}},
		Usage: UsageMetrics{
			Provider: "mock",
			Model:    m.opts.Model,
			CharsIn:  encodedLen(files),
		},
	}
}

func (m *ModelReviewer) failureResult(files []FileInput, err error) ModelResult {
	return ModelResult{
		Findings: []Finding{{
			File:           firstPath(files),
			LineStart:      1,
			LineEnd:        1,
			Category:       CategorySystem,
			Severity:       SeverityHigh,
			Title:          "Model request failed",
			Explanation:    err.Error(),
			Recommendation: "Ensure the model endpoint is running and reachable, or enable the bypass switch.",
			Source:         SourceModel,
			EffortMinutes:  2,
		}},
		Usage: UsageMetrics{
			Provider: m.opts.Provider,
			Model:    m.opts.Model,
			CharsIn:  encodedLen(files),
		},
	}
}

func firstPath(files []FileInput) string {
	if len(files) > 0 && files[0].Path != "" {
		return files[0].Path
	}
	return "unknown"
}

func encodedLen(files []FileInput) int {
	data, err := json.Marshal(files)
	if err != nil {
		return 0
	}
	return len(data)
}
