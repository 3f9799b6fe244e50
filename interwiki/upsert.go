package interwiki

import (
	"context"
	"errors"
	"log/slog"
)

// Upserter adds or updates interwiki entries.
type Upserter struct {
	repo   Repository
	policy ConflictPolicy
}

// NewUpserter creates an Upserter writing through repo with the given
// conflict policy. An empty policy selects DefaultConflictPolicy.
func NewUpserter(repo Repository, policy ConflictPolicy) *Upserter {
	if policy == "" {
		policy = DefaultConflictPolicy
	}
	return &Upserter{repo: repo, policy: policy}
}

// Policy returns the conflict policy in use.
func (u *Upserter) Policy() ConflictPolicy {
	return u.policy
}

// Upsert creates or replaces the entry for req.Prefix. It issues at most one
// read and one write. Calling it again with the same request and Overwrite
// set leaves the store in the same state.
func (u *Upserter) Upsert(ctx context.Context, req Request) (*Result, error) {
	result := &Result{Prefix: req.Prefix, URL: req.URL}

	// The cache override wins over everything, including missing arguments.
	if req.CacheOverrideActive {
		slog.Debug("interwiki cache configured, skipping", "prefix", req.Prefix)
		result.Outcome = OutcomeSkippedCacheOverride
		return result, nil
	}

	if req.Prefix == "" {
		return nil, ErrMissingPrefix
	}
	if req.URL == "" {
		return nil, ErrMissingURL
	}

	entry := NewEntry(req.Prefix, req.URL)

	switch u.policy {
	case PolicyIgnoreOnDuplicate:
		return u.ignoreOnDuplicate(ctx, entry, req.Overwrite, result)
	case PolicyReadThenDecide:
		return u.readThenDecide(ctx, entry, req.Overwrite, result)
	}
	return nil, errors.New("unknown conflict policy " + string(u.policy))
}

func (u *Upserter) ignoreOnDuplicate(ctx context.Context, entry *Entry, overwrite bool, result *Result) (*Result, error) {
	if overwrite {
		prior, err := u.repo.ReplaceInterwiki(ctx, entry)
		if err != nil {
			return nil, &StoreError{Op: "replace", Err: err}
		}
		// Without a read the only hint is the store's own report; when it
		// has none the row is described as overwritten.
		if prior == PriorAbsent {
			result.Outcome = OutcomeCreated
		} else {
			result.Outcome = OutcomeOverwritten
		}
		return result, nil
	}

	inserted, err := u.repo.InsertInterwiki(ctx, entry)
	if err != nil {
		return nil, &StoreError{Op: "insert", Err: err}
	}
	if inserted {
		result.Outcome = OutcomeCreated
	} else {
		result.Outcome = OutcomeSkippedExisting
	}
	return result, nil
}

func (u *Upserter) readThenDecide(ctx context.Context, entry *Entry, overwrite bool, result *Result) (*Result, error) {
	existing, err := u.repo.SelectInterwikiURL(ctx, entry.Prefix)
	switch {
	case errors.Is(err, ErrPrefixNotFound):
		result.Outcome = OutcomeCreated
	case err != nil:
		return nil, &StoreError{Op: "select", Err: err}
	default:
		result.ExistingURL = existing
		if !overwrite {
			result.Outcome = OutcomeSkippedExisting
			return result, nil
		}
		result.Outcome = OutcomeOverwritten
	}

	if _, err := u.repo.ReplaceInterwiki(ctx, entry); err != nil {
		return nil, &StoreError{Op: "replace", Err: err}
	}
	return result, nil
}
