// Package sanitize validates and re-encodes the untrusted freeform text the
// language model returns into a strict, pure-ASCII JSON payload. It never
// repairs malformed structure: any failure is terminal for the request.
package sanitize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/dailydone/checklist-api/internal/domain"
)

// minPlausibleLength is the shortest cleaned response that could possibly be
// a checklist document. Anything shorter is treated as a truncated upstream
// response.
const minPlausibleLength = 10

// Sanitization failures. Each is terminal; none are retried.
var (
	// ErrEmptyOutput indicates the model returned no text at all.
	ErrEmptyOutput = errors.New("empty model output")

	// ErrTruncatedOutput indicates the cleaned text is implausibly short,
	// a heuristic signal that the upstream response was cut off.
	ErrTruncatedOutput = errors.New("incomplete model output")

	// ErrMalformedJSON indicates the cleaned text does not parse as a
	// checklist document.
	ErrMalformedJSON = errors.New("model output is not valid checklist JSON")
)

// diagnosticError attaches the cleaned text that failed sanitization, so the
// API layer can surface it for debugging.
type diagnosticError struct {
	kind error
	raw  string
}

func (e *diagnosticError) Error() string {
	return fmt.Sprintf("%v (%d bytes of output)", e.kind, len(e.raw))
}

func (e *diagnosticError) Unwrap() error { return e.kind }

// RawOutput returns the diagnostic text attached to a sanitization error, or
// "" if err carries none.
func RawOutput(err error) string {
	var diag *diagnosticError
	if errors.As(err, &diag) {
		return diag.raw
	}
	return ""
}

// Sanitize turns raw model output into a canonical ASCII-only JSON document
// matching the domain.Checklist contract. The pipeline is: strip code
// fences, guard against empty/truncated text, parse structurally, re-encode
// canonically, and escape every non-ASCII code point.
func Sanitize(raw string) ([]byte, error) {
	cleaned := stripFence(raw)

	if cleaned == "" {
		return nil, &diagnosticError{kind: ErrEmptyOutput, raw: cleaned}
	}
	if len(cleaned) < minPlausibleLength {
		return nil, &diagnosticError{kind: ErrTruncatedOutput, raw: cleaned}
	}

	var checklist domain.Checklist
	if err := json.Unmarshal([]byte(cleaned), &checklist); err != nil {
		return nil, &diagnosticError{kind: ErrMalformedJSON, raw: cleaned}
	}

	canonical, err := json.Marshal(checklist)
	if err != nil {
		return nil, fmt.Errorf("re-encode checklist: %w", err)
	}

	return escapeNonASCII(canonical), nil
}

// stripFence removes a leading ```json marker and its matching trailing ```
// along with surrounding whitespace. Unfenced text passes through unchanged.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```json") {
		return text
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "```json"))
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "```"))
	}
	return text
}

// escapeNonASCII rewrites every code point above 127 as a \uXXXX escape
// (zero-padded, 4 hex digits), leaving ASCII bytes untouched. Code points
// outside the Basic Multilingual Plane become a surrogate pair, keeping the
// output valid JSON. The result is guaranteed pure ASCII regardless of the
// language the checklist content is written in.
func escapeNonASCII(in []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(in))

	for _, r := range string(in) {
		switch {
		case r <= 127:
			out.WriteByte(byte(r))
		case r <= 0xFFFF:
			fmt.Fprintf(&out, `\u%04x`, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&out, `\u%04x\u%04x`, hi, lo)
		}
	}
	return out.Bytes()
}
