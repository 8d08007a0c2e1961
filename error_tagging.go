package stealpool

import (
	"errors"
	"fmt"
)

// TaskMetaError exposes correlation metadata for a task failure.
type TaskMetaError interface {
	error
	Unwrap() error
	TaskID() uint64
	Worker() int
}

type taskTaggedError struct {
	err    error
	id     uint64
	worker int
}

func newTaskTaggedError(err error, id uint64, worker int) error {
	if err == nil {
		return nil
	}
	return &taskTaggedError{err: err, id: id, worker: worker}
}

func (e *taskTaggedError) Error() string  { return e.err.Error() }
func (e *taskTaggedError) Unwrap() error  { return e.err }
func (e *taskTaggedError) TaskID() uint64 { return e.id }
func (e *taskTaggedError) Worker() int    { return e.worker }

func (e *taskTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "task(id=%d,worker=%d): %+v", e.id, e.worker, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractTaskID returns the submission sequence ID from err if present.
func ExtractTaskID(err error) (uint64, bool) {
	var tme TaskMetaError
	if errors.As(err, &tme) {
		return tme.TaskID(), true
	}
	return 0, false
}

// ExtractWorker returns the index of the worker that ran the failed task, if present.
func ExtractWorker(err error) (int, bool) {
	var tme TaskMetaError
	if errors.As(err, &tme) {
		return tme.Worker(), true
	}
	return 0, false
}
