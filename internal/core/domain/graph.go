// Package domain contains the core domain models of the asset pipeline: configuration,
// assets and the task graph that composes pipeline stages.
package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// NodeKind discriminates the variants of a task graph node.
type NodeKind uint8

const (
	// KindLeaf is a single task.
	KindLeaf NodeKind = iota
	// KindSequence runs children strictly in order and stops at the first failure.
	KindSequence
	// KindFanout runs children concurrently and waits for all of them.
	KindFanout
)

// Node is a composable task graph node.
// A Leaf carries a Task; Sequence and Fanout carry ordered Children.
type Node struct {
	Kind     NodeKind
	Task     *Task
	Children []Node
}

// Leaf wraps a named task function into a graph node.
func Leaf(name string, run TaskFunc) Node {
	return Node{Kind: KindLeaf, Task: &Task{Name: name, Run: run}}
}

// Sequence composes nodes to run one after another.
// A single-element sequence is that element.
func Sequence(children ...Node) Node {
	if len(children) == 1 {
		return children[0]
	}
	return Node{Kind: KindSequence, Children: children}
}

// Fanout composes nodes to run concurrently.
// A single-element fanout is that element.
func Fanout(children ...Node) Node {
	if len(children) == 1 {
		return children[0]
	}
	return Node{Kind: KindFanout, Children: children}
}

// Leaves yields every task of the graph in declaration order.
func (n Node) Leaves() iter.Seq[*Task] {
	return func(yield func(*Task) bool) {
		n.walk(yield)
	}
}

func (n Node) walk(yield func(*Task) bool) bool {
	if n.Kind == KindLeaf {
		return yield(n.Task)
	}
	for _, child := range n.Children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// Names returns the names of all leaves in declaration order.
func (n Node) Names() []string {
	var names []string
	for task := range n.Leaves() {
		if task != nil {
			names = append(names, task.Name)
		}
	}
	return names
}

// Validate rejects nil or unnamed leaves and duplicate leaf names.
func (n Node) Validate() error {
	seen := make(map[string]struct{})
	for task := range n.Leaves() {
		if task == nil || task.Run == nil {
			return ErrInvalidGraph
		}
		if task.Name == "" {
			return zerr.With(ErrInvalidGraph, "reason", "unnamed task")
		}
		if _, dup := seen[task.Name]; dup {
			return zerr.With(ErrDuplicateTask, "task", task.Name)
		}
		seen[task.Name] = struct{}{}
	}
	return nil
}

// String renders the graph shape, e.g. "series(clean, parallel(image, font))".
func (n Node) String() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

func (n Node) render(sb *strings.Builder) {
	switch n.Kind {
	case KindLeaf:
		if n.Task == nil {
			sb.WriteString("<nil>")
			return
		}
		sb.WriteString(n.Task.Name)
		return
	case KindSequence:
		sb.WriteString("series(")
	case KindFanout:
		sb.WriteString("parallel(")
	}
	for i, child := range n.Children {
		if i > 0 {
			sb.WriteString(", ")
		}
		child.render(sb)
	}
	sb.WriteString(")")
}
