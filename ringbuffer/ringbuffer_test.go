package ringbuffer

import "testing"

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := New(3); err != ErrSizeNotPowerOfTwo {
		t.Errorf("New(3) error = %v, want ErrSizeNotPowerOfTwo", err)
	}
	if _, err := New(4); err != nil {
		t.Errorf("New(4) error = %v, want nil", err)
	}
}

func TestEnqueueDequeueRoundTrip(t *testing.T) {
	r, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Enqueue(0x42); err != nil {
		t.Fatal(err)
	}
	got, err := r.Dequeue()
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x42 {
		t.Errorf("got %#x, want 0x42", got)
	}
}

func TestFullAndEmpty(t *testing.T) {
	r, _ := New(2)
	if !r.Empty() {
		t.Error("new buffer should be empty")
	}
	r.Enqueue(1)
	r.Enqueue(2)
	if !r.Full() {
		t.Error("buffer should be full after filling to capacity")
	}
	if err := r.Enqueue(3); err != ErrFull {
		t.Errorf("Enqueue on full buffer = %v, want ErrFull", err)
	}
}

func TestAvailableAfterKEnqueuesAndDequeues(t *testing.T) {
	r, _ := New(8)
	for i := 0; i < 5; i++ {
		r.Enqueue(byte(i))
	}
	if r.Available() != 5 {
		t.Errorf("Available() = %d, want 5", r.Available())
	}
	for i := 0; i < 5; i++ {
		if _, err := r.Dequeue(); err != nil {
			t.Fatal(err)
		}
	}
	if r.Available() != 0 {
		t.Errorf("Available() after draining = %d, want 0", r.Available())
	}
}

func TestEnqueueOverwriteDropsOldest(t *testing.T) {
	r, _ := New(2)
	r.Enqueue(1)
	r.Enqueue(2)
	r.EnqueueOverwrite(3)
	first, _ := r.Dequeue()
	second, _ := r.Dequeue()
	if first != 2 || second != 3 {
		t.Errorf("got %d,%d, want 2,3", first, second)
	}
}

func TestDequeueEmptyReturnsError(t *testing.T) {
	r, _ := New(4)
	if _, err := r.Dequeue(); err != ErrEmpty {
		t.Errorf("Dequeue on empty = %v, want ErrEmpty", err)
	}
}
