// Package scheduler interprets task graphs: sequences run in order and stop at the first
// failure, fan-outs run concurrently and wait for every member to settle.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
	// StatusSkipped indicates the task never started because an earlier sequence member failed.
	StatusSkipped TaskStatus = "Skipped"
)

// Scheduler executes task graphs.
type Scheduler struct {
	tracer   ports.Tracer
	recorder ports.Recorder

	mu         sync.RWMutex
	taskStatus map[string]TaskStatus
}

// NewScheduler creates a new Scheduler. The recorder may be nil.
func NewScheduler(tracer ports.Tracer, recorder ports.Recorder) *Scheduler {
	return &Scheduler{
		tracer:     tracer,
		recorder:   recorder,
		taskStatus: make(map[string]TaskStatus),
	}
}

// StatusAttribute is the span attribute holding the final TaskStatus of a leaf.
const StatusAttribute = "pages.status"

// Run executes the graph rooted at node and returns the aggregated task failures.
// Leaf spans are started with kind ports.SpanKindStage unless opts say otherwise.
func (s *Scheduler) Run(ctx context.Context, node domain.Node, opts ...ports.SpanOption) error {
	if err := node.Validate(); err != nil {
		return err
	}

	names := node.Names()
	s.tracer.EmitPlan(ctx, node.String(), names)
	s.initTaskStatuses(names)

	spanOpts := append([]ports.SpanOption{ports.WithSpanKind(ports.SpanKindStage)}, opts...)
	return s.run(ctx, node, spanOpts)
}

func (s *Scheduler) initTaskStatuses(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		s.taskStatus[name] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name string, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

func (s *Scheduler) run(ctx context.Context, node domain.Node, opts []ports.SpanOption) error {
	switch node.Kind {
	case domain.KindLeaf:
		return s.runLeaf(ctx, node.Task, opts)
	case domain.KindSequence:
		return s.runSequence(ctx, node.Children, opts)
	case domain.KindFanout:
		return s.runFanout(ctx, node.Children, opts)
	default:
		return zerr.With(domain.ErrInvalidGraph, "kind", int(node.Kind))
	}
}

func (s *Scheduler) runSequence(ctx context.Context, children []domain.Node, opts []ports.SpanOption) error {
	for i, child := range children {
		err := ctx.Err()
		if err == nil {
			err = s.run(ctx, child, opts)
		}
		if err != nil {
			for _, rest := range children[i+1:] {
				s.markSkipped(rest)
			}
			return err
		}
	}
	return nil
}

func (s *Scheduler) runFanout(ctx context.Context, children []domain.Node, opts []ports.SpanOption) error {
	errs := make([]error, len(children))

	// Members are not cancelled when a sibling fails.
	var wg sync.WaitGroup
	for i, child := range children {
		wg.Go(func() {
			errs[i] = s.run(ctx, child, opts)
		})
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (s *Scheduler) runLeaf(ctx context.Context, task *domain.Task, opts []ports.SpanOption) error {
	s.updateStatus(task.Name, StatusRunning)

	ctx, span := s.tracer.Start(ctx, task.Name, opts...)
	start := time.Now()
	err := task.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		span.RecordError(err)
	}
	span.SetAttribute(StatusAttribute, string(status))
	span.End()

	if s.recorder != nil {
		s.recorder.ObserveTask(task.Name, time.Since(start), err)
	}

	s.updateStatus(task.Name, status)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", task.Name)
	}
	return nil
}

func (s *Scheduler) markSkipped(node domain.Node) {
	for task := range node.Leaves() {
		s.updateStatus(task.Name, StatusSkipped)
	}
}
