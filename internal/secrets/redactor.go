package secrets

import (
	"regexp"
	"sort"
	"strings"
)

// Redactor removes credentials from text.
type Redactor interface {
	// Redact returns the text with every detected credential replaced.
	Redact(text string) *Result

	// Enabled reports whether redaction is active.
	Enabled() bool
}

// Finding records one detected credential. The matched value is never kept.
type Finding struct {
	RuleID string `json:"rule_id"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Result is the outcome of a redaction pass.
type Result struct {
	Text     string    `json:"text"`
	Findings []Finding `json:"findings,omitempty"`
}

// HasFindings returns true if any credential was redacted.
func (r *Result) HasFindings() bool {
	return len(r.Findings) > 0
}

// regexRedactor is the default Redactor. Configured rules run first; the
// optional gitleaks pass only adds spans the rules did not already cover.
type regexRedactor struct {
	replacement string
	rules       []compiledRule
	allow       []*regexp.Regexp
	gitleaks    *gitleaksScanner
}

// New creates a Redactor. A disabled config yields a Redactor that returns
// text unchanged.
func New(cfg Config) (Redactor, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}

	rules, allow, err := cfg.compile()
	if err != nil {
		return nil, err
	}

	replacement := cfg.Replacement
	if replacement == "" {
		replacement = "[REDACTED]"
	}

	r := &regexRedactor{
		replacement: replacement,
		rules:       rules,
		allow:       allow,
	}
	if cfg.Gitleaks {
		if r.gitleaks, err = newGitleaksScanner(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNew is New for configurations known to be valid.
func MustNew(cfg Config) Redactor {
	r, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return r
}

// Redact implements Redactor.
func (r *regexRedactor) Redact(text string) *Result {
	result := &Result{Text: text}

	var spans []Finding
	for _, rule := range r.rules {
		if !rule.applies(text) {
			continue
		}
		for _, loc := range rule.pattern.FindAllStringIndex(text, -1) {
			if r.allowed(text[loc[0]:loc[1]]) {
				continue
			}
			spans = append(spans, Finding{RuleID: rule.id, Start: loc[0], End: loc[1]})
		}
	}
	if r.gitleaks != nil {
		for _, f := range uncovered(r.gitleaks.scan(text), spans) {
			if !r.allowed(text[f.Start:f.End]) {
				spans = append(spans, f)
			}
		}
	}
	if len(spans) == 0 {
		return result
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	result.Findings = spans

	var b strings.Builder
	cursor := 0
	for _, span := range merge(spans) {
		b.WriteString(text[cursor:span.Start])
		b.WriteString(r.replacement)
		cursor = span.End
	}
	b.WriteString(text[cursor:])
	result.Text = b.String()

	return result
}

// Enabled implements Redactor.
func (r *regexRedactor) Enabled() bool { return true }

func (r *regexRedactor) allowed(match string) bool {
	for _, a := range r.allow {
		if a.MatchString(match) {
			return true
		}
	}
	return false
}

func (c compiledRule) applies(text string) bool {
	if len(c.keywords) == 0 {
		return true
	}
	for _, kw := range c.keywords {
		if kw.MatchString(text) {
			return true
		}
	}
	return false
}

// merge collapses overlapping spans. Input must be sorted by Start.
func merge(spans []Finding) []Finding {
	merged := []Finding{spans[0]}
	for _, cur := range spans[1:] {
		last := &merged[len(merged)-1]
		if cur.Start <= last.End {
			if cur.End > last.End {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

// Noop is a Redactor that returns text unchanged.
type Noop struct{}

// Redact returns text unchanged.
func (Noop) Redact(text string) *Result { return &Result{Text: text} }

// Enabled returns false.
func (Noop) Enabled() bool { return false }

var (
	_ Redactor = (*regexRedactor)(nil)
	_ Redactor = Noop{}
)
