package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyPrompt        = errors.New("prompt is required")
	ErrTaskNotFound       = errors.New("task_not_found")
	ErrStatusQueryTimeout = errors.New("status query timed out")
	ErrTaskTimeout        = errors.New("task execution timed out")
)

// TaskFailedError reports a task that reached FAILED, carrying the
// server-side failure message verbatim.
type TaskFailedError struct {
	TaskID  string
	Message string
}

func (e *TaskFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("task %s failed", e.TaskID)
	}
	return e.Message
}

// AsTaskFailed unwraps err into a TaskFailedError, if it is one.
func AsTaskFailed(err error) (*TaskFailedError, bool) {
	var tf *TaskFailedError
	ok := errors.As(err, &tf)
	return tf, ok
}

type Service interface {
	// Generate validates and submits a request, then drives it to a
	// terminal state. Completed tasks carry a non-empty ImageURL.
	Generate(ctx context.Context, userID int64, req GenerateRequest, progress ProgressFunc) (Task, error)

	// PollTask polls an already-submitted task until terminal state,
	// attempt limit, or context cancellation.
	PollTask(ctx context.Context, taskID string, progress ProgressFunc) (PollResult, error)

	// TaskStatus returns a single observation without polling.
	TaskStatus(ctx context.Context, taskID string) (TaskStatus, error)

	// EnhancePrompt is best effort: on any failure it returns the
	// original prompt with Improved=false and no error.
	EnhancePrompt(ctx context.Context, prompt string) EnhanceResult

	// Models lists the selectable models and their credit costs.
	Models(ctx context.Context) ([]Model, error)
}
