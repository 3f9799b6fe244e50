// Package maintenance runs one-shot database updates, optionally recording
// them so that later runs are skipped.
package maintenance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/danielledeleo/addinterwiki/interwiki"
)

// Update is a single maintenance operation.
type Update interface {
	// UpdateKey identifies the update in the update log.
	UpdateKey() string

	// SkippedMessage is printed when the update was already applied.
	SkippedMessage() string

	// DoUpdate performs the update and returns a status line.
	DoUpdate(ctx context.Context) (string, error)
}

// UpdateLog records which updates have been applied.
type UpdateLog interface {
	UpdateApplied(ctx context.Context, key string) (bool, error)
	MarkUpdateApplied(ctx context.Context, key, value string) error
}

// Runner executes updates and writes their status lines to Out.
type Runner struct {
	Log UpdateLog
	Out io.Writer

	// Once makes the runner consult and record the update log.
	Once bool
	// Force runs a logged update even if it was already applied.
	Force bool
}

// Run executes u. It reports whether the update ran; an update skipped
// because it was already logged is not an error.
func (r *Runner) Run(ctx context.Context, u Update) (bool, error) {
	key := u.UpdateKey()

	if r.Once && !r.Force {
		applied, err := r.Log.UpdateApplied(ctx, key)
		if err != nil {
			return false, &interwiki.StoreError{Op: "read update log", Err: err}
		}
		if applied {
			slog.Debug("update already applied", "key", key)
			fmt.Fprintln(r.Out, u.SkippedMessage())
			return false, nil
		}
	}

	status, err := u.DoUpdate(ctx)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(r.Out, status)

	if r.Once {
		if err := r.Log.MarkUpdateApplied(ctx, key, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return true, &interwiki.StoreError{Op: "record update log", Err: err}
		}
		slog.Debug("update logged", "key", key)
	}
	return true, nil
}
