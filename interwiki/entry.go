package interwiki

import "fmt"

// Entry is one row of the interwiki table.
type Entry struct {
	Prefix string `db:"iw_prefix"`
	URL    string `db:"iw_url"`
	API    string `db:"iw_api"`
	WikiID string `db:"iw_wikiid"`
	Local  bool   `db:"iw_local"`
	Trans  bool   `db:"iw_trans"`
}

// NewEntry returns an entry for prefix and url with the auxiliary fields
// empty and the flags cleared.
func NewEntry(prefix, url string) *Entry {
	return &Entry{Prefix: prefix, URL: url}
}

// Outcome describes what an upsert did.
type Outcome string

const (
	OutcomeSkippedCacheOverride Outcome = "skipped-cache-override"
	OutcomeSkippedExisting      Outcome = "skipped-existing"
	OutcomeCreated              Outcome = "created"
	OutcomeOverwritten          Outcome = "overwritten"
)

// Wrote reports whether the outcome involved a write to the store.
func (o Outcome) Wrote() bool {
	return o == OutcomeCreated || o == OutcomeOverwritten
}

// ConflictPolicy selects how an existing row for the same prefix is handled.
type ConflictPolicy string

const (
	// PolicyIgnoreOnDuplicate writes without reading first and lets the
	// store's insert-ignore primitive leave an existing row in place.
	PolicyIgnoreOnDuplicate ConflictPolicy = "ignore-on-duplicate"
	// PolicyReadThenDecide looks up the existing URL and only writes when
	// there is none or overwriting was requested.
	PolicyReadThenDecide ConflictPolicy = "read-then-decide"
)

// DefaultConflictPolicy is used when no policy is configured.
const DefaultConflictPolicy = PolicyReadThenDecide

// ParseConflictPolicy converts a configuration value to a ConflictPolicy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch s {
	case "ignore-on-duplicate", "ignore":
		return PolicyIgnoreOnDuplicate, nil
	case "read-then-decide", "read":
		return PolicyReadThenDecide, nil
	case "":
		return DefaultConflictPolicy, nil
	}
	return "", fmt.Errorf("unknown conflict policy %q", s)
}

// Request holds the arguments of a single upsert.
type Request struct {
	Prefix              string
	URL                 string
	Overwrite           bool
	CacheOverrideActive bool
}

// Result is returned by a successful upsert.
type Result struct {
	Outcome Outcome
	Prefix  string
	URL     string
	// ExistingURL is the URL found in the store before the write. It is
	// empty when no lookup was made or no row existed.
	ExistingURL string
}

// String returns the status line shown to the operator.
func (r *Result) String() string {
	switch r.Outcome {
	case OutcomeSkippedCacheOverride:
		return "Interwiki cache is in use; interwiki table not modified"
	case OutcomeSkippedExisting:
		if r.ExistingURL == "" {
			return fmt.Sprintf("InterWiki prefix %s exists; not overwriting", r.Prefix)
		}
		return fmt.Sprintf("InterWiki prefix %s exists with URL %s", r.Prefix, r.ExistingURL)
	case OutcomeOverwritten:
		return fmt.Sprintf("Overwriting InterWiki link %s --> %s", r.Prefix, r.URL)
	case OutcomeCreated:
		return fmt.Sprintf("Adding InterWiki link %s --> %s", r.Prefix, r.URL)
	}
	return string(r.Outcome)
}
