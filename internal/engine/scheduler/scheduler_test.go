package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pages/internal/adapters/telemetry"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/pages/internal/core/ports/mocks"
	"go.trai.ch/pages/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) task(name string, err error) domain.Node {
	return domain.Leaf(name, func(context.Context) error {
		j.mu.Lock()
		j.entries = append(j.entries, name)
		j.mu.Unlock()
		return err
	})
}

func (j *journal) ran() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

func TestScheduler_Run_SequenceOrder(t *testing.T) {
	s := scheduler.NewScheduler(telemetry.NewNoOpTracer(), nil)
	var j journal

	err := s.Run(context.Background(), domain.Sequence(j.task("a", nil), j.task("b", nil), j.task("c", nil)))

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, j.ran())
	assert.Equal(t, map[string]scheduler.TaskStatus{
		"a": scheduler.StatusCompleted,
		"b": scheduler.StatusCompleted,
		"c": scheduler.StatusCompleted,
	}, s.GetTaskStatusMap())
}

func TestScheduler_Run_SequenceFailFast(t *testing.T) {
	s := scheduler.NewScheduler(telemetry.NewNoOpTracer(), nil)
	var j journal
	boom := errors.New("boom")

	err := s.Run(context.Background(), domain.Sequence(
		j.task("a", boom),
		j.task("b", nil),
		domain.Fanout(j.task("c", nil), j.task("d", nil)),
	))

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []string{"a"}, j.ran())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "a", zErr.Metadata()["task"])

	statuses := s.GetTaskStatusMap()
	assert.Equal(t, scheduler.StatusFailed, statuses["a"])
	assert.Equal(t, scheduler.StatusSkipped, statuses["b"])
	assert.Equal(t, scheduler.StatusSkipped, statuses["c"])
	assert.Equal(t, scheduler.StatusSkipped, statuses["d"])
}

func TestScheduler_Run_FanoutSettlesAll(t *testing.T) {
	s := scheduler.NewScheduler(telemetry.NewNoOpTracer(), nil)
	errA := errors.New("a failed")
	errC := errors.New("c failed")

	var slowDone atomic.Bool
	slow := domain.Leaf("b", func(context.Context) error {
		time.Sleep(50 * time.Millisecond)
		slowDone.Store(true)
		return nil
	})

	err := s.Run(context.Background(), domain.Fanout(
		domain.Leaf("a", func(context.Context) error { return errA }),
		slow,
		domain.Leaf("c", func(context.Context) error { return errC }),
	))

	require.Error(t, err)
	assert.True(t, slowDone.Load(), "fan-out returned before all members settled")
	assert.True(t, errors.Is(err, errA))
	assert.True(t, errors.Is(err, errC))
	assert.Equal(t, scheduler.StatusCompleted, s.GetTaskStatusMap()["b"])
}

func TestScheduler_Run_FanoutIsConcurrent(t *testing.T) {
	s := scheduler.NewScheduler(telemetry.NewNoOpTracer(), nil)

	// Each member waits for the other; a serial executor would deadlock.
	var ready sync.WaitGroup
	ready.Add(2)
	member := func(name string) domain.Node {
		return domain.Leaf(name, func(ctx context.Context) error {
			ready.Done()
			done := make(chan struct{})
			go func() { ready.Wait(); close(done) }()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.Run(ctx, domain.Fanout(member("x"), member("y"))))
}

func TestScheduler_Run_CancelledBeforeStart(t *testing.T) {
	s := scheduler.NewScheduler(telemetry.NewNoOpTracer(), nil)
	var j journal

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, domain.Sequence(j.task("a", nil), j.task("b", nil)))

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, j.ran())
}

func TestScheduler_Run_InvalidGraph(t *testing.T) {
	s := scheduler.NewScheduler(telemetry.NewNoOpTracer(), nil)
	var j journal

	err := s.Run(context.Background(), domain.Fanout(j.task("a", nil), j.task("a", nil)))

	require.Error(t, err)
	assert.Empty(t, j.ran())
}

func TestScheduler_Run_EmitsPlanAndSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)
	boom := errors.New("boom")

	gomock.InOrder(
		tracer.EXPECT().EmitPlan(gomock.Any(), "series(ok, bad)", []string{"ok", "bad"}),
		tracer.EXPECT().Start(gomock.Any(), "ok", gomock.Any()).Return(context.Background(), span),
		span.EXPECT().SetAttribute(scheduler.StatusAttribute, string(scheduler.StatusCompleted)),
		span.EXPECT().End(),
		recorder.EXPECT().ObserveTask("ok", gomock.Any(), nil),
		tracer.EXPECT().Start(gomock.Any(), "bad", gomock.Any()).Return(context.Background(), span),
		span.EXPECT().RecordError(boom),
		span.EXPECT().SetAttribute(scheduler.StatusAttribute, string(scheduler.StatusFailed)),
		span.EXPECT().End(),
		recorder.EXPECT().ObserveTask("bad", gomock.Any(), boom),
	)

	s := scheduler.NewScheduler(tracer, recorder)

	err := s.Run(context.Background(), domain.Sequence(
		domain.Leaf("ok", func(context.Context) error { return nil }),
		domain.Leaf("bad", func(context.Context) error { return boom }),
	))

	require.Error(t, err)
}

func TestScheduler_Run_SpanKind(t *testing.T) {
	tests := []struct {
		name string
		opts []ports.SpanOption
		want string
	}{
		{"stage by default", nil, ports.SpanKindStage},
		{"overridden", []ports.SpanOption{ports.WithSpanKind(ports.SpanKindRebuild)}, ports.SpanKindRebuild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			tracer := mocks.NewMockTracer(ctrl)
			span := mocks.NewMockSpan(ctrl)

			var kinds []string
			tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any())
			tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, _ string, opts ...ports.SpanOption) (context.Context, ports.Span) {
					cfg := &ports.SpanConfig{}
					for _, opt := range opts {
						opt(cfg)
					}
					kinds = append(kinds, cfg.Kind)
					return ctx, span
				}).Times(2)
			span.EXPECT().SetAttribute(scheduler.StatusAttribute, gomock.Any()).Times(2)
			span.EXPECT().End().Times(2)

			s := scheduler.NewScheduler(tracer, nil)

			err := s.Run(context.Background(), domain.Sequence(
				domain.Leaf("style", func(context.Context) error { return nil }),
				domain.Leaf("page", func(context.Context) error { return nil }),
			), tt.opts...)

			require.NoError(t, err)
			assert.Equal(t, []string{tt.want, tt.want}, kinds)
		})
	}
}
