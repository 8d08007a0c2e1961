package stealpool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJob_InvokeRunsOnce(t *testing.T) {
	calls := 0
	failed := 0
	j := &job{
		run:  func(context.Context) error { calls++; return nil },
		fail: func(error) { failed++ },
	}

	require.True(t, j.pending())
	require.NoError(t, j.invoke(context.Background()))
	require.False(t, j.pending())

	require.NoError(t, j.invoke(context.Background()))
	j.drop(ErrTaskDropped)

	require.Equal(t, 1, calls)
	require.Zero(t, failed, "drop after invoke must not fail the future")
}

func TestJob_DropFailsOnceAndPreventsInvoke(t *testing.T) {
	calls := 0
	var got []error
	j := &job{
		run:  func(context.Context) error { calls++; return nil },
		fail: func(err error) { got = append(got, err) },
	}

	j.drop(ErrTaskDropped)
	j.drop(errors.New("second drop"))
	require.NoError(t, j.invoke(context.Background()))

	require.Zero(t, calls)
	require.Equal(t, []error{ErrTaskDropped}, got)
}

func TestJob_InvokeReturnsTaskError(t *testing.T) {
	boom := errors.New("boom")
	j := &job{run: func(context.Context) error { return boom }}
	require.ErrorIs(t, j.invoke(context.Background()), boom)
}

func TestNewJob_SettlesFuture(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		task       Task[int]
		tagging    bool
		wantR      int
		wantErr    error
		wantTagged bool
	}{
		{name: "value", task: TaskNoCtx(func() int { return 3 }), wantR: 3},
		{name: "error untagged", task: TaskError[int](func(context.Context) error { return boom }), wantErr: boom},
		{name: "error tagged", task: TaskError[int](func(context.Context) error { return boom }), tagging: true, wantErr: boom, wantTagged: true},
		{name: "panic tagged", task: TaskFunc(func(context.Context) (int, error) { panic("x") }), tagging: true, wantErr: ErrTaskPanicked, wantTagged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFuture[int]()
			j := newJob(tt.task, f, tt.tagging)
			j.id = 7

			ctx := withWorker(context.Background(), nil, 4)
			runErr := j.invoke(ctx)

			got, err := f.Get()
			require.Equal(t, tt.wantR, got)
			require.Equal(t, err, runErr, "invoke reports the settled error")
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)

			id, ok := ExtractTaskID(err)
			require.Equal(t, tt.wantTagged, ok)
			if tt.wantTagged {
				require.Equal(t, uint64(7), id)
				w, _ := ExtractWorker(err)
				require.Equal(t, 4, w)
			}
		})
	}
}

func TestNewJob_DropFailsFuture(t *testing.T) {
	f := newFuture[string]()
	j := newJob(TaskNoCtx(func() string { return "never" }), f, false)

	j.drop(ErrTaskDropped)
	require.False(t, j.pending())

	_, err := f.Get()
	require.ErrorIs(t, err, ErrTaskDropped)
}
