package enrich

import (
	"regexp"
	"strings"
)

// fencedBlock matches a markdown code fence with an optional json language
// tag and captures its interior.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\n(.*?)\n```")

// ExtractJSON locates the best-effort JSON candidate in raw model output.
// A fenced block wins; otherwise the whole trimmed text is the candidate and
// any surrounding prose will surface as a parse error downstream. Blank input
// is reported here instead of being passed on as an empty candidate.
func ExtractJSON(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrNoCandidate
	}
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	return trimmed, nil
}
