package interwiki

import "context"

// Repository is the storage the upserter writes through.
type Repository interface {
	// SelectInterwikiURL returns the URL stored for prefix, or
	// ErrPrefixNotFound when there is no such row.
	SelectInterwikiURL(ctx context.Context, prefix string) (string, error)

	// InsertInterwiki inserts entry unless a row with the same prefix
	// exists. It reports whether a row was inserted.
	InsertInterwiki(ctx context.Context, entry *Entry) (bool, error)

	// ReplaceInterwiki writes entry, replacing any row with the same prefix,
	// and reports whether such a row existed when the store can tell.
	ReplaceInterwiki(ctx context.Context, entry *Entry) (PriorState, error)
}

// PriorState is what a replace found under the prefix before writing.
type PriorState int

const (
	// PriorUnknown means the store's replace primitive does not say.
	PriorUnknown PriorState = iota
	PriorAbsent
	PriorExisted
)
