package sched

import "testing"

func TestRunTasksOrderAndCount(t *testing.T) {
	var order []int
	s := New()
	for i := 0; i < 3; i++ {
		i := i
		s.Add(func() { order = append(order, i) })
	}

	s.RunTasks()
	want := []int{0, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("got %d calls, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}

	order = nil
	s.RunTasks()
	if len(order) != len(want) {
		t.Errorf("second round: got %d calls, want %d", len(order), len(want))
	}
}

func TestLen(t *testing.T) {
	s := New()
	if s.Len() != 0 {
		t.Errorf("new scheduler Len() = %d, want 0", s.Len())
	}
	s.Add(func() {})
	s.Add(func() {})
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
