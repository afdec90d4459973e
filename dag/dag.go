// Package dag provides the task graph executed once per period and the
// executors which run it.
package dag

import (
	"errors"
	"fmt"

	"pipelined.dev/engine/event"
)

var (
	// ErrCycle is returned when an edge would make a task its own ancestor.
	ErrCycle = errors.New("dag: cycle")
	// ErrUnknownTask is returned when an edge references a missing task.
	ErrUnknownTask = errors.New("dag: unknown task")
	// ErrStackCapacity is returned when a configured ready stack can't hold
	// every task that may become ready at once.
	ErrStackCapacity = errors.New("dag: insufficient stack capacity")
)

type (
	// ID identifies a task within its DAG.
	ID int

	// ThreadContext is the state of the goroutine executing a task.
	ThreadContext struct {
		Arena      *event.Arena
		BufferSize int
		// Worker is 0 for the calling goroutine and 1..n for workers.
		Worker int
	}

	// Task is a unit of work. It must not block.
	Task func(*ThreadContext)

	// DAG is a set of tasks and edges from parent to child tasks. A child
	// runs after all of its parents.
	DAG struct {
		tasks    []Task
		children [][]ID
	}

	// Executor runs every task of a DAG once per call.
	Executor interface {
		Run(bufferSize int)
	}
)

// New returns an empty DAG.
func New() *DAG {
	return &DAG{}
}

// AddTask adds a task without parents.
func (d *DAG) AddTask(t Task) ID {
	d.tasks = append(d.tasks, t)
	d.children = append(d.children, nil)
	return ID(len(d.tasks) - 1)
}

// AddChildTask adds a task which runs after parent.
func (d *DAG) AddChildTask(parent ID, t Task) (ID, error) {
	if !d.has(parent) {
		return 0, fmt.Errorf("%w: parent %d", ErrUnknownTask, parent)
	}
	id := d.AddTask(t)
	d.children[parent] = append(d.children[parent], id)
	return id, nil
}

// AddChild adds an edge from parent to child. Existing edges are ignored.
func (d *DAG) AddChild(parent, child ID) error {
	if !d.has(parent) || !d.has(child) {
		return fmt.Errorf("%w: edge %d -> %d", ErrUnknownTask, parent, child)
	}
	if parent == child || d.isDescendant(child, parent) {
		return fmt.Errorf("%w: %d -> %d", ErrCycle, parent, child)
	}
	for _, c := range d.children[parent] {
		if c == child {
			return nil
		}
	}
	d.children[parent] = append(d.children[parent], child)
	return nil
}

// Len returns number of tasks.
func (d *DAG) Len() int {
	return len(d.tasks)
}

// Children returns children of a task.
func (d *DAG) Children(id ID) []ID {
	return d.children[id]
}

// Roots returns tasks without parents.
func (d *DAG) Roots() []ID {
	parents := d.parents()
	var roots []ID
	for id, n := range parents {
		if n == 0 {
			roots = append(roots, ID(id))
		}
	}
	return roots
}

// StackCapacity returns the number of tasks that can be ready at the same
// time in a multithreaded run: every root plus all but one child of every
// task.
func (d *DAG) StackCapacity() int {
	c := len(d.Roots())
	for _, children := range d.children {
		if len(children) > 1 {
			c += len(children) - 1
		}
	}
	return min(c, len(d.tasks))
}

func (d *DAG) has(id ID) bool {
	return id >= 0 && int(id) < len(d.tasks)
}

// isDescendant reports whether target is reachable from id.
func (d *DAG) isDescendant(id, target ID) bool {
	visited := make([]bool, len(d.tasks))
	stack := []ID{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range d.children[n] {
			if c == target {
				return true
			}
			if !visited[c] {
				visited[c] = true
				stack = append(stack, c)
			}
		}
	}
	return false
}

func (d *DAG) parents() []int32 {
	parents := make([]int32, len(d.tasks))
	for _, children := range d.children {
		for _, c := range children {
			parents[c]++
		}
	}
	return parents
}
