// Package sharelink encodes and validates read-only share links: a URL
// carrying one baby's name, birth date, and vaccine completion map for
// display without access to the local store.
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"nestcare/internal/baby/models"
	"nestcare/internal/validate"
)

// ErrInvalidLink marks a share link whose required parameters are missing
// or invalid. It is a terminal state for the shared view, not a silent
// fallback to default data.
var ErrInvalidLink = errors.New("invalid share link")

// Snapshot is the decoded read-only subset of a baby a share link carries.
type Snapshot struct {
	Name     string
	DOB      string
	Vaccines map[string]bool
}

// Encode builds the share URL for a baby: {base}/share?name=…&dob=…&v=…
// where v is the base64-encoded JSON completion map. v is omitted when
// nothing has been toggled yet.
func Encode(baby models.Baby, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse share base URL: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/share"

	q := url.Values{}
	q.Set("name", baby.Name)
	q.Set("dob", baby.DOB)
	if len(baby.Vaccines) > 0 {
		payload, err := json.Marshal(baby.Vaccines)
		if err != nil {
			return "", fmt.Errorf("encode completion map: %w", err)
		}
		q.Set("v", base64.StdEncoding.EncodeToString(payload))
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// Decode validates share-link query parameters into a Snapshot. A missing
// or invalid name or dob fails the whole link; a missing or invalid v
// degrades to an empty completion map instead.
func Decode(q url.Values, now time.Time) (Snapshot, error) {
	name := validate.SanitizeString(q.Get("name"), validate.MaxNameLength)
	if name == "" {
		return Snapshot{}, fmt.Errorf("%w: name is missing", ErrInvalidLink)
	}

	dob := validate.DOB(q.Get("dob"), now)
	if !dob.OK {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrInvalidLink, dob.Err)
	}

	// Value is always a usable (possibly empty) map, valid payload or not.
	vaccines := validate.CompletionMap(q.Get("v")).Value

	return Snapshot{Name: name, DOB: dob.Value, Vaccines: vaccines}, nil
}
