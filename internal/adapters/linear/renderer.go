// Package linear provides a synchronous, line-oriented progress renderer.
package linear

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/pages/internal/ui/output"
	"go.trai.ch/pages/internal/ui/style"
)

// Renderer implements ports.Renderer with one line per task transition:
//
//	[10:31:02] Starting 'style'...
//	[10:31:02] Finished 'style' after 41 ms
//
// Tasks rerun by the watch loop read "Rebuilding 'style'..." and "Rebuilt 'style' after 9 ms".
type Renderer struct {
	w      io.Writer
	output *termenv.Output

	mu    sync.Mutex
	tasks map[string]*taskState // spanID -> task state
}

type taskState struct {
	name      string
	kind      string
	startTime time.Time
}

// NewRenderer creates a new Renderer writing to w (stderr when nil).
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stderr
	}

	return &Renderer{
		w:      w,
		output: output.NewWithProfile(w, output.ColorProfileANSI),
		tasks:  make(map[string]*taskState),
	}
}

// OnPlanEmit prints the graph about to run.
func (r *Renderer) OnPlanEmit(shape string, tasks []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.w, "%s Running %s (%d task(s))\n",
		r.stamp(time.Now()), r.output.String(shape).Faint(), len(tasks))
}

// OnTaskStart prints a task start message.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name, kind string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{
		name:      name,
		kind:      kind,
		startTime: startTime,
	}

	verb := "Starting"
	if kind == ports.SpanKindRebuild {
		verb = "Rebuilding"
	}
	_, _ = fmt.Fprintf(r.w, "%s %s %s...\n", r.stamp(startTime), verb, r.taskName(name))
}

// OnTaskComplete prints the completion status and duration.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)

	took := r.output.String(FormatDuration(endTime.Sub(task.startTime))).
		Foreground(r.output.Color(string(style.Iris)))

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Red)))
		_, _ = fmt.Fprintf(r.w, "%s %s %s errored after %s: %v\n",
			r.stamp(endTime), symbol, r.taskName(task.name), took, err)
		return
	}

	verb := "Finished"
	if task.kind == ports.SpanKindRebuild {
		verb = "Rebuilt"
	}
	_, _ = fmt.Fprintf(r.w, "%s %s %s after %s\n", r.stamp(endTime), verb, r.taskName(task.name), took)
}

func (r *Renderer) stamp(t time.Time) string {
	return "[" + r.output.String(t.Format(time.TimeOnly)).Faint().String() + "]"
}

func (r *Renderer) taskName(name string) string {
	return r.output.String("'" + name + "'").Foreground(r.output.Color(string(style.Slate))).String()
}

// FormatDuration renders d at a human scale: "850 μs", "41 ms", "1.25 s".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d μs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
}
