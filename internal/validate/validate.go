// Package validate sanitizes and validates untrusted input: profile fields
// typed into forms and the query parameters carried by share links.
//
// Validation failures are values, not errors: every validator returns a
// result holding a validity flag, the best-effort sanitized value, and a
// human message suitable for inline display.
package validate

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Field length ceilings applied before any other check.
const (
	MaxNameLength  = 50
	MaxEmailLength = 100
	MaxURLLength   = 500
)

// Result is the outcome of validating one string field.
type Result struct {
	OK    bool
	Value string
	Err   string
}

// MapResult is the outcome of decoding a share-link completion map.
type MapResult struct {
	OK    bool
	Value map[string]bool
	Err   string
}

var (
	// Letters plus the Bengali block, whitespace, hyphen, apostrophe.
	nameRe = regexp.MustCompile(`^[a-zA-Z\x{0980}-\x{09FF}\s'-]+$`)
	dobRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// Shape check only; not RFC 5322.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// SanitizeString trims, truncates to maxLength runes, and strips angle
// brackets. The stripping defends plain-text display against naive markup
// injection; it is not an HTML sanitizer and callers must not rely on it
// for anything beyond that.
func SanitizeString(input string, maxLength int) string {
	s := strings.TrimSpace(input)
	if runes := []rune(s); len(runes) > maxLength {
		s = string(runes[:maxLength])
	}
	s = strings.ReplaceAll(s, "<", "")
	return strings.ReplaceAll(s, ">", "")
}

// BabyName validates a baby name: required, at least 2 characters, and
// drawn from letters (Latin or Bengali), whitespace, hyphens, apostrophes.
func BabyName(name string) Result {
	sanitized := SanitizeString(name, MaxNameLength)

	if sanitized == "" {
		return Result{Err: "Name is required"}
	}
	if len([]rune(sanitized)) < 2 {
		return Result{Value: sanitized, Err: "Name must be at least 2 characters"}
	}
	if !nameRe.MatchString(sanitized) {
		return Result{Value: sanitized, Err: "Name contains invalid characters"}
	}
	return Result{OK: true, Value: sanitized}
}

// DOB validates a birth date string against now: required, exactly
// YYYY-MM-DD, parseable, not in the future, and not more than 5 calendar
// years in the past. The 5-year bound is stricter than the store requires
// because this validator also gates share-link consumption, which has no
// other sanity check.
func DOB(dob string, now time.Time) Result {
	if dob == "" {
		return Result{Err: "Date of birth is required"}
	}
	if !dobRe.MatchString(dob) {
		return Result{Value: dob, Err: "Invalid date format"}
	}
	date, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return Result{Value: dob, Err: "Invalid date"}
	}
	now = now.UTC()
	if date.After(now) {
		return Result{Value: dob, Err: "Date cannot be in the future"}
	}
	if date.Before(now.AddDate(-5, 0, 0)) {
		return Result{Value: dob, Err: "Date seems too far in the past"}
	}
	return Result{OK: true, Value: dob}
}

// Email validates an email address shape.
func Email(email string) Result {
	sanitized := SanitizeString(email, MaxEmailLength)

	if sanitized == "" {
		return Result{Err: "Email is required"}
	}
	if !emailRe.MatchString(sanitized) {
		return Result{Value: sanitized, Err: "Invalid email address"}
	}
	return Result{OK: true, Value: sanitized}
}

// URL validates an optional http/https URL. Empty input is valid because
// the field is optional.
func URL(raw string) Result {
	if raw == "" {
		return Result{OK: true}
	}

	sanitized := SanitizeString(raw, MaxURLLength)
	u, err := url.Parse(sanitized)
	if err != nil || u.Host == "" {
		return Result{Value: sanitized, Err: "Invalid URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Result{Value: sanitized, Err: "Only HTTP/HTTPS URLs are allowed"}
	}
	return Result{OK: true, Value: sanitized}
}

// CompletionMap decodes a base64-encoded JSON completion map from a share
// link. Empty input is valid and yields an empty map (absence is not an
// error). Anything that is not base64 of a JSON object with boolean values
/// is rejected outright: this is the only defense between a crafted share
// payload and the schedule engine.
func CompletionMap(data string) MapResult {
	if data == "" {
		return MapResult{OK: true, Value: map[string]bool{}}
	}

	invalid := MapResult{Value: map[string]bool{}, Err: "Invalid encoded data"}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return invalid
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(decoded, &raw); err != nil {
		return invalid
	}
	if raw == nil {
		// "null" unmarshals into a nil map; a null payload is not an object.
		return invalid
	}

	value := make(map[string]bool, len(raw))
	for key, field := range raw {
		var b bool
		if err := json.Unmarshal(field, &b); err != nil {
			return invalid
		}
		value[key] = b
	}
	return MapResult{OK: true, Value: value}
}
