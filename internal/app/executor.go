package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/pictoboard/internal/platform/logging"
)

// Board-wide operations that reach the network run as a staged pipeline:
//
//  1. VALIDATE - reject bad input before any lookup
//  2. PERFORM  - tokenize and resolve (network, cache)
//  3. VERIFY   - build the cards and check one exists per word
//  4. ARCHIVE  - commit the cards to the board as one undo step
//  5. RESPOND  - summarize for the caller
//
// The board is only touched in ARCHIVE, so a cancelled or failed lookup
// never leaves a half-built board behind.

const tracerName = "github.com/jsamuelsen/pictoboard/internal/app"

// ExecutionStep names a pipeline stage.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the underlying cause so domain errors stay matchable.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func stepError(step ExecutionStep, message string, cause error) error {
	return &ExecutionError{Step: step, Message: message, Cause: cause}
}

// Executor runs staged operations with logging and tracing per step.
type Executor struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewExecutor creates an executor. Defaults logger to slog.Default() if nil.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Operation holds the functions for each stage. Nil stages are skipped.
type Operation[I, P, V, O any] struct {
	// Name identifies the operation in logs and spans.
	Name string

	// Validate checks input. An error aborts before any lookup.
	Validate func(ctx context.Context, input I) error

	// Perform does the slow work and must not touch the board.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify turns Perform's output into the value to commit.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive commits the verified value.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond builds the caller's result once everything is committed.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

type stage struct {
	logger *slog.Logger
	span   trace.Span
}

func (s stage) run(ctx context.Context, step ExecutionStep, message string, fn func() error) error {
	s.logger.Log(ctx, logging.LevelTrace, "step started", slog.String("step", string(step)))
	s.span.AddEvent(string(step))

	if err := fn(); err != nil {
		level := slog.LevelError
		if step == StepValidate || step == StepRespond {
			level = slog.LevelWarn
		}

		s.logger.Log(ctx, level, "step failed",
			slog.String("step", string(step)),
			slog.Any("error", err))

		if step == StepRespond {
			return err
		}

		return stepError(step, message, err)
	}

	return nil
}

// Execute runs op on input through all five stages, stopping at the first failure.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var (
		zero      O
		performed P
		verified  V
		result    O
	)

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))

	ctx, span := exec.tracer.Start(ctx, "app."+op.Name)
	defer span.End()

	start := time.Now()
	st := stage{logger: logger, span: span}

	steps := []struct {
		step    ExecutionStep
		message string
		fn      func() error
	}{
		{StepValidate, "input validation failed", func() error {
			if op.Validate == nil {
				return nil
			}

			return op.Validate(ctx, input)
		}},
		{StepPerform, "operation failed", func() error {
			if op.Perform == nil {
				return nil
			}

			var err error
			performed, err = op.Perform(ctx, input)

			return err
		}},
		{StepVerify, "verification failed", func() error {
			if op.Verify == nil {
				return nil
			}

			var err error
			verified, err = op.Verify(ctx, input, performed)

			return err
		}},
		{StepArchive, "state commit failed", func() error {
			if op.Archive == nil {
				return nil
			}

			return op.Archive(ctx, input, verified)
		}},
		{StepRespond, "", func() error {
			if op.Respond == nil {
				return nil
			}

			var err error
			result, err = op.Respond(ctx, input, verified)

			return err
		}},
	}

	for _, s := range steps {
		if err := st.run(ctx, s.step, s.message, s.fn); err != nil {
			span.SetAttributes(attribute.String("app.failed_step", string(s.step)))
			span.SetStatus(codes.Error, err.Error())

			return zero, err
		}
	}

	logger.InfoContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// IsExecutionError checks if an error occurred during execution.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
