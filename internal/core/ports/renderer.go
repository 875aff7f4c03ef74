package ports

import "time"

// Renderer presents task progress to the user.
// It is fed by the telemetry bridge so the scheduler never writes to the terminal itself.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPlanEmit is called once before a graph runs.
	// shape: the rendered graph, e.g. "series(clean, parallel(image, font))"
	// tasks: task names in declaration order
	OnPlanEmit(shape string, tasks []string)

	// OnTaskStart is called when a task begins execution.
	// kind is the span kind the task was started with, empty when unset.
	OnTaskStart(spanID, parentID, name, kind string, startTime time.Time)

	// OnTaskComplete is called when a task finishes; err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
