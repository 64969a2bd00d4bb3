package coordinate

import "regexp"

// Extractor finds candidate item identifiers in free-text worker output,
// seeding follow-up subtasks. Text scraping is inherently fragile, so the
// strategy is pluggable; structured worker output can replace it without
// touching the coordinator.
type Extractor interface {
	Extract(output string) []string
}

// RegexExtractor extracts identifiers with a regular expression.
type RegexExtractor struct {
	pattern *regexp.Regexp
}

// NewRegexExtractor compiles pattern into an extractor.
func NewRegexExtractor(pattern string) (*RegexExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexExtractor{pattern: re}, nil
}

// DefaultExtractor matches item identifiers of the form "name-123".
func DefaultExtractor() *RegexExtractor {
	return &RegexExtractor{pattern: regexp.MustCompile(`\b[a-z][a-z0-9]*-\d{3,}\b`)}
}

// Extract returns the distinct matches in order of first appearance.
func (e *RegexExtractor) Extract(output string) []string {
	matches := e.pattern.FindAllString(output, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var ids []string
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			ids = append(ids, m)
		}
	}
	return ids
}
