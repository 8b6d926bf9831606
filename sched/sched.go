// Package sched is the cooperative, non-preemptive task runner: a flat
// list of zero-argument functions run in order, once per round. There is
// no priority, no yielding, and no per-task state — SGPIO and the clock
// graph never depend on it, they run to completion on whatever called
// them.
package sched

// Task is a unit of cooperative work. It must return promptly: nothing
// here preempts it.
type Task func()

// Scheduler holds an ordered list of tasks to run every round.
type Scheduler struct {
	tasks []Task
}

// New returns an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Add appends a task to the round-robin list. Order is preserved: tasks
// run in the order they were added.
func (s *Scheduler) Add(t Task) {
	s.tasks = append(s.tasks, t)
}

// Len reports how many tasks are registered.
func (s *Scheduler) Len() int { return len(s.tasks) }

// RunTasks runs every registered task once, in order.
func (s *Scheduler) RunTasks() {
	for _, t := range s.tasks {
		t()
	}
}

// Run loops RunTasks forever. Callers that need to do other work between
// rounds should call RunTasks directly instead.
func (s *Scheduler) Run() {
	for {
		s.RunTasks()
	}
}
