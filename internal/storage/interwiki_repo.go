package storage

import (
	"context"
	"database/sql"

	"github.com/danielledeleo/addinterwiki/interwiki"
	"github.com/pkg/errors"
)

// Interwiki repository methods for Store

var _ interwiki.Repository = (*Store)(nil)

func (s *Store) SelectInterwikiURL(ctx context.Context, prefix string) (string, error) {
	var url string
	err := s.conn.GetContext(ctx, &url, s.stmts.SelectInterwikiURL, prefix)
	if err == sql.ErrNoRows {
		return "", interwiki.ErrPrefixNotFound
	} else if err != nil {
		return "", errors.Wrapf(err, "select interwiki prefix %q", prefix)
	}
	return url, nil
}

func (s *Store) InsertInterwiki(ctx context.Context, entry *interwiki.Entry) (bool, error) {
	result, err := s.conn.ExecContext(ctx, s.stmts.InsertInterwiki, interwikiArgs(entry)...)
	if err != nil {
		return false, errors.Wrapf(err, "insert interwiki prefix %q", entry.Prefix)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return n > 0, nil
}

func (s *Store) ReplaceInterwiki(ctx context.Context, entry *interwiki.Entry) (interwiki.PriorState, error) {
	switch s.dialect {
	case DialectPostgres:
		// xmax is zero only on a freshly inserted tuple.
		var inserted bool
		if err := s.conn.GetContext(ctx, &inserted, s.stmts.ReplaceInterwiki, interwikiArgs(entry)...); err != nil {
			return interwiki.PriorUnknown, errors.Wrapf(err, "replace interwiki prefix %q", entry.Prefix)
		}
		if inserted {
			return interwiki.PriorAbsent, nil
		}
		return interwiki.PriorExisted, nil

	case DialectMySQL:
		// REPLACE counts the deleted row too: 1 for a new row, 2 otherwise.
		result, err := s.conn.ExecContext(ctx, s.stmts.ReplaceInterwiki, interwikiArgs(entry)...)
		if err != nil {
			return interwiki.PriorUnknown, errors.Wrapf(err, "replace interwiki prefix %q", entry.Prefix)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return interwiki.PriorUnknown, errors.Wrap(err, "rows affected")
		}
		return priorFromReplaceCount(n), nil
	}

	if _, err := s.conn.ExecContext(ctx, s.stmts.ReplaceInterwiki, interwikiArgs(entry)...); err != nil {
		return interwiki.PriorUnknown, errors.Wrapf(err, "replace interwiki prefix %q", entry.Prefix)
	}
	return interwiki.PriorUnknown, nil
}

func priorFromReplaceCount(n int64) interwiki.PriorState {
	switch {
	case n == 1:
		return interwiki.PriorAbsent
	case n > 1:
		return interwiki.PriorExisted
	}
	return interwiki.PriorUnknown
}

func interwikiArgs(entry *interwiki.Entry) []any {
	return []any{
		entry.Prefix,
		entry.URL,
		entry.API,
		entry.WikiID,
		boolToInt(entry.Local),
		boolToInt(entry.Trans),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
