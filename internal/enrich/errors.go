package enrich

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse means the completion endpoint answered 2xx but the
	// envelope carried no message content.
	ErrMalformedResponse = errors.New("completion response missing message content")

	// ErrNoCandidate means the completion text was blank, so there is nothing
	// to hand to the JSON decoder. The whole-text fallback never reaches this.
	ErrNoCandidate = errors.New("completion text contained no candidate payload")
)

// UpstreamError is a non-2xx answer from the completion endpoint. Body keeps
// the raw response for diagnosis.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion endpoint returned status %d: %s", e.Status, e.Body)
}

// ParseError means the extracted candidate was not valid JSON. Raw keeps the
// candidate exactly as extracted.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("candidate is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError is a field-level schema violation in the decoded candidate.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("enrichment field %q: %s", e.Field, e.Reason)
}
