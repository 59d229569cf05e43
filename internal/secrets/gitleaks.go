package secrets

import (
	"fmt"
	"strings"

	gitleaksConfig "github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
)

// gitleaksScanner runs the gitleaks default ruleset over text.
//
// The ruleset is parsed once. A Detector accumulates findings internally,
// so each scan gets a fresh one.
type gitleaksScanner struct {
	config gitleaksConfig.Config
}

func newGitleaksScanner() (*gitleaksScanner, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("loading gitleaks ruleset: %w", err)
	}
	return &gitleaksScanner{config: d.Config}, nil
}

// scan returns a span for every occurrence of every detected secret.
func (g *gitleaksScanner) scan(text string) []Finding {
	var spans []Finding
	seen := make(map[[2]int]bool)
	for _, f := range detect.NewDetector(g.config).DetectString(text) {
		if f.Secret == "" {
			continue
		}
		for offset := 0; ; {
			i := strings.Index(text[offset:], f.Secret)
			if i < 0 {
				break
			}
			start := offset + i
			end := start + len(f.Secret)
			if !seen[[2]int{start, end}] {
				seen[[2]int{start, end}] = true
				spans = append(spans, Finding{RuleID: "gitleaks:" + f.RuleID, Start: start, End: end})
			}
			offset = end
		}
	}
	return spans
}

// uncovered drops spans that lie entirely inside one of covered.
func uncovered(spans, covered []Finding) []Finding {
	out := spans[:0]
	for _, s := range spans {
		inside := false
		for _, c := range covered {
			if s.Start >= c.Start && s.End <= c.End {
				inside = true
				break
			}
		}
		if !inside {
			out = append(out, s)
		}
	}
	return out
}
