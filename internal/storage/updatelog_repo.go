package storage

import (
	"context"

	"github.com/pkg/errors"
)

// Update log methods for Store

// UpdateApplied reports whether an update with the given key has been logged.
func (s *Store) UpdateApplied(ctx context.Context, key string) (bool, error) {
	var n int
	if err := s.conn.GetContext(ctx, &n, s.stmts.SelectUpdateLog, key); err != nil {
		return false, errors.Wrapf(err, "select update log %q", key)
	}
	return n > 0, nil
}

// MarkUpdateApplied records key in the update log, replacing an earlier entry.
func (s *Store) MarkUpdateApplied(ctx context.Context, key, value string) error {
	if _, err := s.conn.ExecContext(ctx, s.stmts.ReplaceUpdateLog, key, value); err != nil {
		return errors.Wrapf(err, "record update log %q", key)
	}
	return nil
}
