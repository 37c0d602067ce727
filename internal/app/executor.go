package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
)

// Writes run in three stages. Check rejects bad input before any store call.
// Apply makes the single state change. Verify inspects what the store handed
// back, so a misbehaving backend surfaces as a fault instead of a wrong answer.

// Stage names one stage of a write.
type Stage string

// Write stages.
const (
	StageCheck  Stage = "check"
	StageApply  Stage = "apply"
	StageVerify Stage = "verify"
)

// StageError records the write and stage that failed. It unwraps to the
// stage's own error, so domain classifiers see through it.
type StageError struct {
	Op    string
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage a write error came from.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}

	return "", false
}

// write describes one write. Apply is required; Check and Verify may be nil.
type write[I, O any] struct {
	op     string
	check  func(in I) error
	apply  func(ctx context.Context, in I) (O, error)
	verify func(in I, out O) error
}

// run executes w against in and logs the outcome on the request logger,
// falling back to logger.
func (w write[I, O]) run(ctx context.Context, logger *slog.Logger, in I) (O, error) {
	var zero O

	log := logging.FromContextOr(ctx, logger).With(slog.String("operation", w.op))
	start := time.Now()

	fail := func(stage Stage, err error) (O, error) {
		level := slog.LevelInfo
		if domain.IsUnavailable(err) || domain.IsFault(err) || stage == StageVerify {
			level = slog.LevelError
		}

		log.Log(ctx, level, "write failed", slog.String("stage", string(stage)), slog.Any("error", err))

		return zero, &StageError{Op: w.op, Stage: stage, Err: err}
	}

	if w.check != nil {
		if err := w.check(in); err != nil {
			return fail(StageCheck, err)
		}
	}

	out, err := w.apply(ctx, in)
	if err != nil {
		return fail(StageApply, err)
	}

	if w.verify != nil {
		if err := w.verify(in, out); err != nil {
			return fail(StageVerify, err)
		}
	}

	log.InfoContext(ctx, "write completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}
